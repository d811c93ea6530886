package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

// scriptStep is a single action of a replay script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Digit  int     `yaml:"digit,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

var errEmptyScript = errors.New("script has no steps")

// script replays clicks, digit entries and screenshots against a board, one
// step per tick, for automated visual checks.
type script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

func parseScript(data []byte) (*script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", errEmptyScript)
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "erase", "screenshot", "wait", "quit":
		case "digit":
			if st.Digit < 1 || st.Digit > 9 {
				return nil, fmt.Errorf("parse script: step %d: digit %d out of range", i, st.Digit)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &script{steps: f.Steps}, nil
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read script: %w", err)
	}
	return parseScript(data)
}

// step runs the next action unless a wait is still counting down.
func (s *script) step(b *board) {
	if s.done {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++
	b.log.Debug("Script step", zap.Int("step", s.cursor), zap.String("action", st.Action))

	switch st.Action {
	case "click":
		b.click(st.X, st.Y)
	case "digit":
		b.enter(st.Digit)
	case "erase":
		b.erase()
	case "screenshot":
		b.scene.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "quit":
		b.scene.Quit()
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}
