package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseScript(t *testing.T) {
	data := []byte(`steps:
  - action: screenshot
    label: initial
  - action: click
    x: 100
    y: 200
  - action: digit
    digit: 7
  - action: wait
    frames: 3
  - action: erase
  - action: quit
`)
	s, err := parseScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(s.steps))
	}
	if s.steps[0].Action != "screenshot" || s.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if s.steps[1].X != 100 || s.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if s.steps[2].Digit != 7 || s.steps[3].Frames != 3 {
		t.Error("step 2 or 3 mismatch")
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid", "steps: [", "parse script"},
		{"unknown action", "steps:\n  - action: drag\n", `unknown action "drag"`},
		{"digit range", "steps:\n  - action: digit\n    digit: 10\n", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := parseScript([]byte("steps: []\n")); !errors.Is(err, errEmptyScript) {
		t.Errorf("err = %v, want errEmptyScript", err)
	}
}

func TestLoadScriptMissingFile(t *testing.T) {
	_, err := loadScript(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestScriptDrivesBoard(t *testing.T) {
	b, _ := testBoard(t)
	r := b.cells[10].w.Bounds()
	data := fmt.Sprintf(`steps:
  - action: click
    x: %g
    y: %g
  - action: digit
    digit: 4
  - action: wait
    frames: 2
  - action: screenshot
    label: entered
`, r.X+r.Width/2, r.Y+r.Height/2)
	s, err := parseScript([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	s.step(b) // click
	if b.selected != b.cells[10] {
		t.Fatalf("selected = %v, want cell 10", b.selected)
	}
	s.step(b) // digit
	if b.cells[10].digit != 4 {
		t.Errorf("digit = %d, want 4", b.cells[10].digit)
	}
	s.step(b) // wait, first frame
	s.step(b) // wait, second frame
	if b.scene.PendingScreenshots() != 0 {
		t.Fatal("screenshot taken before the wait ended")
	}
	s.step(b) // screenshot
	if b.scene.PendingScreenshots() != 1 {
		t.Errorf("pending screenshots = %d, want 1", b.scene.PendingScreenshots())
	}
	if !s.done {
		t.Error("script should be done after its last step")
	}
	s.step(b)
	if b.scene.PendingScreenshots() != 1 {
		t.Error("a finished script should not act")
	}
}
