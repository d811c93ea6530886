package lattice

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTransitionEndpoints(t *testing.T) {
	for _, name := range TransitionNames() {
		fn, err := TransitionByName(name)
		if err != nil {
			t.Fatalf("TransitionByName(%q): %v", name, err)
		}
		if got := fn(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := fn(1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestTransitionClampsInput(t *testing.T) {
	if got := InOutSine(-0.5); got != 0 {
		t.Errorf("InOutSine(-0.5) = %v, want 0", got)
	}
	if got := OutCubic(2); got != 1 {
		t.Errorf("OutCubic(2) = %v, want 1", got)
	}
	if got := Linear(1.5); got != 1 {
		t.Errorf("Linear(1.5) = %v, want 1", got)
	}
}

func TestTransitionMidpoints(t *testing.T) {
	if got := Linear(0.25); got != 0.25 {
		t.Errorf("Linear(0.25) = %v, want 0.25", got)
	}
	if got := InOutSine(0.5); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("InOutSine(0.5) = %v, want ~0.5", got)
	}
	if got := InQuad(0.5); math.Abs(got-0.25) > 1e-6 {
		t.Errorf("InQuad(0.5) = %v, want ~0.25", got)
	}
	if got := OutQuad(0.5); math.Abs(got-0.75) > 1e-6 {
		t.Errorf("OutQuad(0.5) = %v, want ~0.75", got)
	}
}

func TestTransitionByNameUnknown(t *testing.T) {
	_, err := TransitionByName("wobble")
	if !errors.Is(err, ErrUnknownTransition) {
		t.Errorf("err = %v, want ErrUnknownTransition", err)
	}
}

func TestTransitionNamesSorted(t *testing.T) {
	names := TransitionNames()
	if !slices.IsSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	for _, want := range []string{"linear", "in_out_sine", "out_bounce"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestFromEaseCustom(t *testing.T) {
	fn := FromEase(ease.InCubic)
	if got := fn(0.5); math.Abs(got-0.125) > 1e-6 {
		t.Errorf("InCubic(0.5) = %v, want ~0.125", got)
	}
}

func TestTransitionTweenFuncScales(t *testing.T) {
	tf := Linear.tweenFunc()
	if got := tf(1, 10, 20, 4); got != 15 {
		t.Errorf("tweenFunc(1, 10, 20, 4) = %v, want 15", got)
	}
	if got := tf(0, 10, 20, 0); got != 30 {
		t.Errorf("zero duration should land on the end, got %v", got)
	}
}
