package keymap

import (
	"testing"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

const sampleMap = `# Originally generated from system-config-keyboard's model list.
# consolelayout		xlayout	xmodel		xvariant	xoptions
us			us	pc105+inet	-		terminate:ctrl_alt_bksp
uk			gb	pc105+inet	-		terminate:ctrl_alt_bksp
de			de	pc105		-		terminate:ctrl_alt_bksp
de-latin1		de	pc105		-		terminate:ctrl_alt_bksp
de-latin1-nodeadkeys	de	pc105		nodeadkeys	terminate:ctrl_alt_bksp
fr-bepo			fr	pc105		bepo
broken line
dvorak			us	pc105		dvorak		terminate:ctrl_alt_bksp
`

func str(s string) *string { return &s }

func TestParse(t *testing.T) {
	table := Parse([]byte(sampleMap))

	if len(table.Rows) != 7 {
		t.Fatalf("len(Rows) = %d, want 7", len(table.Rows))
	}
	first := table.Rows[0]
	if first.Console != "us" || first.Layout != "us" || first.Model != "pc105+inet" || first.Variant != "-" {
		t.Errorf("Rows[0] = %+v", first)
	}
	if first.Options != "terminate:ctrl_alt_bksp" {
		t.Errorf("Rows[0].Options = %q", first.Options)
	}
	if bepo := table.Rows[5]; bepo.Console != "fr-bepo" || bepo.Options != "" {
		t.Errorf("Rows[5] = %+v, want fr-bepo without options", bepo)
	}
}

func TestResolve(t *testing.T) {
	table := Parse([]byte(sampleMap))

	tests := []struct {
		name    string
		layout  string
		variant *string
		want    string
	}{
		{"no variant matches dash row", "de", nil, "de"},
		{"variant picks its row", "de", str("nodeadkeys"), "de-latin1-nodeadkeys"},
		{"unknown variant falls back to first", "de", str("neo"), "de"},
		{"empty variant matches first row", "de", str(""), "de"},
		{"variant only row", "fr", str("bepo"), "fr-bepo"},
		{"different console name", "gb", nil, "uk"},
		{"us default", "us", nil, "us"},
		{"us dvorak", "us", str("dvorak"), "dvorak"},
		{"unknown layout", "xx", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Resolve(tt.layout, tt.variant); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/share/kbd-model-map", []byte(sampleMap), 0644)

	table, err := Load(fsys, "/share/kbd-model-map")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := table.Resolve("de", str("nodeadkeys")); got != "de-latin1-nodeadkeys" {
		t.Errorf("Resolve() = %q", got)
	}

	if _, err := Load(fsys, "/missing"); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
