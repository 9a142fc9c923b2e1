package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tatianab/adventure/internal/models"
)

func TestRun(t *testing.T) {
	tests := map[string]struct {
		args     []string
		world    string
		input    string
		expOut   []string
		expErr   string
		expBadWd bool
	}{
		"builtin world": {
			args:   []string{"-world", "builtin:boris"},
			input:  "take bike\nexit\n",
			expOut: []string{"Welcome, Mr Mayor.", "living room", "There is no bike here"},
		},
		"world file with folded case": {
			world:  "start_room: Cell\nrooms:\n  - name: Cell\n    description: Stone walls.\n    items:\n      - name: Key\n",
			input:  "take KEY\n",
			expOut: []string{"Stone walls.", "You take the Key"},
		},
		"malformed world": {
			world:    "start_room: Nowhere\nrooms:\n  - name: Cell\n    description: Stone walls.\n",
			expBadWd: true,
		},
		"unknown builtin": {
			args:   []string{"-world", "builtin:atlantis"},
			expErr: "unknown builtin world",
		},
		"bad ui": {
			args:   []string{"-world", "builtin:boris", "-ui", "web"},
			expErr: "loading config",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("ADVENTURE_LOG_LEVEL", "ERROR")
			t.Setenv("ADVENTURE_FOLD_CASE", "")

			args := tc.args
			if tc.world != "" {
				path := filepath.Join(t.TempDir(), "world.yaml")
				if err := os.WriteFile(path, []byte(tc.world), 0644); err != nil {
					t.Fatalf("failed to write world: %v", err)
				}
				args = []string{"-world", path}
				t.Setenv("ADVENTURE_FOLD_CASE", "true")
			}

			var out bytes.Buffer
			err := Run(context.Background(), args, strings.NewReader(tc.input), &out)

			switch {
			case tc.expBadWd:
				var mwe *models.MalformedWorldError
				if !errors.As(err, &mwe) {
					t.Fatalf("expected MalformedWorldError, got %v", err)
				}
				return
			case tc.expErr != "":
				if err == nil || !strings.Contains(err.Error(), tc.expErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expErr, err)
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			for _, want := range tc.expOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}
