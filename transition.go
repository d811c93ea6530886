package lattice

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// Transition maps linear progress in [0, 1] to eased progress. Input outside
// the range is clamped.
type Transition func(progress float64) float64

// FromEase adapts a gween easing function to a Transition. The result is
// pinned to exactly 0 and 1 at the endpoints so completed animations land on
// their target without float32 residue.
func FromEase(fn ease.TweenFunc) Transition {
	return func(p float64) float64 {
		switch {
		case p <= 0:
			return 0
		case p >= 1:
			return 1
		}
		return float64(fn(float32(p), 0, 1, 1))
	}
}

// tweenFunc converts t back into the gween signature used by the animation
// driver.
func (t Transition) tweenFunc() ease.TweenFunc {
	return func(tm, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(t(float64(tm/d)))
	}
}

// Linear is the identity transition.
func Linear(p float64) float64 {
	return clamp01(p)
}

var (
	InQuad     = FromEase(ease.InQuad)
	OutQuad    = FromEase(ease.OutQuad)
	InOutQuad  = FromEase(ease.InOutQuad)
	InCubic    = FromEase(ease.InCubic)
	OutCubic   = FromEase(ease.OutCubic)
	InOutCubic = FromEase(ease.InOutCubic)
	InSine     = FromEase(ease.InSine)
	OutSine    = FromEase(ease.OutSine)
	InOutSine  = FromEase(ease.InOutSine)
	InExpo     = FromEase(ease.InExpo)
	OutExpo    = FromEase(ease.OutExpo)
	InOutExpo  = FromEase(ease.InOutExpo)
	InBack     = FromEase(ease.InBack)
	OutBack    = FromEase(ease.OutBack)
	InOutBack  = FromEase(ease.InOutBack)
	OutBounce  = FromEase(ease.OutBounce)
	OutElastic = FromEase(ease.OutElastic)
)

var transitionsByName = map[string]Transition{
	"linear":       Linear,
	"in_quad":      InQuad,
	"out_quad":     OutQuad,
	"in_out_quad":  InOutQuad,
	"in_cubic":     InCubic,
	"out_cubic":    OutCubic,
	"in_out_cubic": InOutCubic,
	"in_sine":      InSine,
	"out_sine":     OutSine,
	"in_out_sine":  InOutSine,
	"in_expo":      InExpo,
	"out_expo":     OutExpo,
	"in_out_expo":  InOutExpo,
	"in_back":      InBack,
	"out_back":     OutBack,
	"in_out_back":  InOutBack,
	"out_bounce":   OutBounce,
	"out_elastic":  OutElastic,
}

// TransitionByName returns the built-in transition registered under name,
// e.g. "in_out_sine".
func TransitionByName(name string) (Transition, error) {
	t, ok := transitionsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, name)
	}
	return t, nil
}

// TransitionNames lists the built-in transition names, sorted.
func TransitionNames() []string {
	names := make([]string, 0, len(transitionsByName))
	for n := range transitionsByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
