package binding

import (
	"reflect"
	"testing"
)

func TestInterpolateResolvesNestedPaths(t *testing.T) {
	data := map[string]any{
		"sheet": map[string]any{
			"name":  "Fractions",
			"kinds": []any{"essay", "matching"},
		},
		"number": 7,
	}
	got := Interpolate("Q${number}: ${sheet.name} / ${sheet.kinds[1]}", data)
	if got != "Q7: Fractions / matching" {
		t.Fatalf("unexpected interpolation: %q", got)
	}
}

func TestInterpolateKeepsUnknownPlaceholders(t *testing.T) {
	data := map[string]any{"a": 1}
	got := Interpolate("${a} ${missing} ${a[3]} ${ }", data)
	if got != "1 ${missing} ${a[3]} ${ }" {
		t.Fatalf("unexpected interpolation: %q", got)
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should keep text, got %q", got)
	}
}

func TestTemplatePlaceholders(t *testing.T) {
	tpl := Compile("${label} question ${number}. ${label}")
	want := []string{"label", "number", "label"}
	if got := tpl.Placeholders(); !reflect.DeepEqual(got, want) {
		t.Fatalf("placeholders = %v, want %v", got, want)
	}
	if got := tpl.Execute(map[string]string{"label": "Essay", "number": "2"}); got != "Essay question 2. Essay" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestTemplateWithoutPlaceholders(t *testing.T) {
	tpl := Compile("plain text")
	if len(tpl.Placeholders()) != 0 {
		t.Fatalf("expected no placeholders")
	}
	if got := tpl.Execute(map[string]any{}); got != "plain text" {
		t.Fatalf("unexpected render: %q", got)
	}
}
