package nixcfg

import (
	"fmt"
	"regexp"
	"sort"
)

// placeholderRegex matches @@name@@ placeholders.
var placeholderRegex = regexp.MustCompile(`@@(\w+)@@`)

// Vars maps placeholder names to their substitution values.
type Vars map[string]string

// Set binds a placeholder. A later Set replaces the earlier value.
func (v Vars) Set(name, value string) {
	v[name] = value
}

// Names returns the bound names in sorted order.
func (v Vars) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placeholders returns the placeholder names used in text, each once, in
// order of first appearance.
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRegex.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// WarningKind classifies a placeholder inconsistency.
type WarningKind string

const (
	Unused    WarningKind = "unused"
	Undefined WarningKind = "undefined"
)

// Warning is a placeholder that is bound but never used, or used but never
// bound.
type Warning struct {
	Kind WarningKind
	Name string
}

func (w Warning) String() string {
	if w.Kind == Unused {
		return fmt.Sprintf("Variable '%s' is not used.", w.Name)
	}
	return fmt.Sprintf("Variable '%s' is used but not defined.", w.Name)
}

// Check compares the bindings against the placeholders of all docs.
// Unused bindings come first in name order, then undefined placeholders in
// order of appearance.
func Check(vars Vars, docs ...string) []Warning {
	used := make(map[string]bool)
	var order []string
	for _, doc := range docs {
		for _, name := range Placeholders(doc) {
			if !used[name] {
				used[name] = true
				order = append(order, name)
			}
		}
	}

	var warnings []Warning
	for _, name := range vars.Names() {
		if !used[name] {
			warnings = append(warnings, Warning{Kind: Unused, Name: name})
		}
	}
	for _, name := range order {
		if _, ok := vars[name]; !ok {
			warnings = append(warnings, Warning{Kind: Undefined, Name: name})
		}
	}
	return warnings
}

// Substitute replaces every bound placeholder in text with its value in a
// single pass. Unbound placeholders are left as they are and substituted
// values are not scanned again.
func Substitute(text string, vars Vars) string {
	return placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
		if value, ok := vars[m[2:len(m)-2]]; ok {
			return value
		}
		return m
	})
}
