package midi

import "testing"

func TestMatchPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "FLUID Synth (1234):Synth input port", "fluid"}
	tests := []struct {
		want string
		idx  int
	}{
		{"fluid", 2},
		{"FLUID", 1},
		{"synth input", 1},
		{"through", 0},
		{"launchpad", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := matchPort(names, tt.want); got != tt.idx {
			t.Errorf("matchPort(%q) = %d, want %d", tt.want, got, tt.idx)
		}
	}
}
