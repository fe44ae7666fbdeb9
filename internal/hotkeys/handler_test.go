package hotkeys

import "testing"

func TestExpandMod(t *testing.T) {
	tests := []struct {
		seq, mod, want string
	}{
		{"Mod-j", "Mod1", "Mod1-j"},
		{"Mod-Shift-c", "Mod4", "Mod4-Shift-c"},
		{"Control-Mod-Return", "Mod1", "Control-Mod1-Return"},
		{"Mod", "Mod1", "Mod"},
		{"Shift-Mod1-q", "Mod4", "Shift-Mod1-q"},
	}
	for _, tt := range tests {
		if got := ExpandMod(tt.seq, tt.mod); got != tt.want {
			t.Fatalf("ExpandMod(%q, %q) = %q, want %q", tt.seq, tt.mod, got, tt.want)
		}
	}
}
