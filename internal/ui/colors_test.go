package ui

import (
	"strings"
	"testing"
)

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"OK", OK("saved"), "✓ saved"},
		{"Err", Err("failed"), "✗ failed"},
		{"Warn", Warn("careful"), "! careful"},
		{"Hint", Hint("try again"), "try again"},
		{"Title", Title("faustok"), "faustok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, tt.got)
			}
		})
	}
}

func TestSettingsTable(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if got := SettingsTable(nil); !strings.Contains(got, "no users") {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("Sorted Rows", func(t *testing.T) {
		got := SettingsTable(map[string]bool{"222": false, "111": true})
		lines := strings.Split(got, "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and two rows, got %q", got)
		}
		if !strings.Contains(lines[0], "USER") || !strings.Contains(lines[1], "111") || !strings.Contains(lines[2], "222") {
			t.Errorf("unexpected table:\n%s", got)
		}
		if !strings.Contains(lines[1], "on") || !strings.Contains(lines[2], "off") {
			t.Errorf("unexpected states:\n%s", got)
		}
	})
}
