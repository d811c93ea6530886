package lattice

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDebugModeDisposedParentPanics(t *testing.T) {
	s := NewScene(100, 100)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewWidget("parent")
	parent.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	parent.AddChild(NewWidget("child"))
}

func TestReleaseModeDisposedWidgetDoesNotPanic(t *testing.T) {
	s := NewScene(100, 100)
	s.SetDebugMode(false)

	child := NewWidget("child")
	child.Dispose()

	defer func() {
		if r := recover(); r != nil {
			if msg := fmt.Sprint(r); strings.Contains(msg, "disposed") {
				t.Errorf("release mode should not panic on disposed widget, got: %s", msg)
			}
		}
	}()
	s.Root().AddChild(child)
}

func TestDebugModeChildCountWarning(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)
	s := NewScene(100, 100)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewWidget("many_children")
	s.Root().AddChild(parent)
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewWidget(fmt.Sprintf("c_%d", i)))
	}

	warned := logs.FilterMessage("child count exceeds threshold")
	if warned.Len() != 1 {
		t.Fatalf("warnings = %d, want 1", warned.Len())
	}
	if got := warned.All()[0].ContextMap()["widget"]; got != "many_children" {
		t.Errorf("widget field = %v", got)
	}
}

func TestDebugLogSilentWhenDisabled(t *testing.T) {
	logs := observeLogs(t, zapcore.DebugLevel)
	s := NewScene(100, 100)
	s.Tick(0.1)
	if logs.FilterMessage("tick").Len() != 0 {
		t.Error("tick stats should only be logged in debug mode")
	}
}
