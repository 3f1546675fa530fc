package keymap

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

// NoVariant is the kbd-model-map spelling of "no X11 variant".
const NoVariant = "-"

// Row is one mapping line of kbd-model-map.
type Row struct {
	Console string // console keymap, e.g. "de-latin1-nodeadkeys"
	Layout  string // X11 layout
	Model   string // X11 model
	Variant string // X11 variant, "-" for none
	Options string // X11 options, "" when the column is absent
}

// Table is a parsed kbd-model-map.
type Table struct {
	Rows []Row
}

// Parse reads kbd-model-map content. Comment lines and lines with fewer
// than four columns are skipped.
func Parse(data []byte) *Table {
	t := &Table{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		row := Row{
			Console: fields[0],
			Layout:  fields[1],
			Model:   fields[2],
			Variant: fields[3],
		}
		if len(fields) > 4 {
			row.Options = fields[4]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Load reads and parses the kbd-model-map at path.
func Load(fsys system.FileSystem, path string) (*Table, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keymap table: %w", err)
	}
	return Parse(data), nil
}

// Resolve returns the console keymap for an X11 layout and variant, or ""
// when the layout is unknown. The first row for the layout is the default;
// the first row whose variant column contains variant overrides it. A nil
// variant matches rows without a variant.
func (t *Table) Resolve(layout string, variant *string) string {
	want := NoVariant
	if variant != nil {
		want = *variant
	}

	console := ""
	for _, row := range t.Rows {
		if row.Layout != layout {
			continue
		}
		if console == "" {
			console = row.Console
		}
		if strings.Contains(row.Variant, want) {
			return row.Console
		}
	}
	return console
}
