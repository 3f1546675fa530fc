package nixcfg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlaceholders(t *testing.T) {
	got := Placeholders(`a = "@@x@@"; b = "@@y_2@@"; c = "@@x@@"; d = "@@not closed"; e = "@ @z@@"`)
	want := []string{"x", "y_2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Placeholders() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	vars := Vars{"used": "1", "zeta": "2", "alpha": "3"}
	docs := []string{"@@used@@ @@missing@@", "@@other@@ @@missing@@"}

	got := Check(vars, docs...)
	want := []Warning{
		{Kind: Unused, Name: "alpha"},
		{Kind: Unused, Name: "zeta"},
		{Kind: Undefined, Name: "missing"},
		{Kind: Undefined, Name: "other"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}

	if got := Check(Vars{"a": "1"}, "@@a@@"); len(got) != 0 {
		t.Errorf("Check() consistent = %v, want none", got)
	}
}

func TestCheck_AcrossDocuments(t *testing.T) {
	// A binding used only by the second document is not unused
	got := Check(Vars{"hostname": "demo"}, "no placeholders", "nixosConfigurations.@@hostname@@")
	if len(got) != 0 {
		t.Errorf("Check() = %v, want none", got)
	}
}

func TestWarning_String(t *testing.T) {
	tests := []struct {
		warning Warning
		want    string
	}{
		{Warning{Kind: Unused, Name: "swapdev"}, "Variable 'swapdev' is not used."},
		{Warning{Kind: Undefined, Name: "LC_TIME"}, "Variable 'LC_TIME' is used but not defined."},
	}

	for _, tt := range tests {
		if got := tt.warning.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars Vars
		want string
	}{
		{"simple", `host = "@@hostname@@";`, Vars{"hostname": "demo"}, `host = "demo";`},
		{"repeated", "@@a@@-@@a@@", Vars{"a": "x"}, "x-x"},
		{"unbound kept", "@@a@@ @@b@@", Vars{"a": "x"}, "x @@b@@"},
		{"single pass", "@@a@@", Vars{"a": "@@b@@", "b": "no"}, "@@b@@"},
		{"empty value", "[ @@pkgs@@ ]", Vars{"pkgs": ""}, "[  ]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.text, tt.vars); got != tt.want {
				t.Errorf("Substitute() = %q, want %q", got, tt.want)
			}
		})
	}
}
