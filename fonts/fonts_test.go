package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range Names() {
		data, err := Load("embed:" + name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("font %s is empty", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("Inter-Regular.ttf"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}
