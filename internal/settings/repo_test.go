package settings

import "testing"

func TestParseRepo(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"existflow/controlcentre", "existflow/controlcentre"},
		{"https://github.com/existflow/controlcentre", "existflow/controlcentre"},
		{"https://github.com/existflow/controlcentre.git", "existflow/controlcentre"},
		{"https://github.com/existflow/controlcentre/tree/main", "existflow/controlcentre"},
		{"https://github.com/Existflow/Control.Centre?tab=readme", "Existflow/Control.Centre"},
		{"git@github.com/existflow/controlcentre", "existflow/controlcentre"},
		{"  existflow/controlcentre  ", "existflow/controlcentre"},
		{"", ""},
		{"not a repo", ""},
		{"https://gitlab.com/existflow/controlcentre", ""},
		{"justoneword", ""},
		{"too/many/segments", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseRepo(tt.input); got != tt.want {
				t.Errorf("ParseRepo(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
