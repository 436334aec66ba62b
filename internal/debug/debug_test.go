package debug

import (
	"errors"
	"testing"
)

func TestTrapDisabledIsNoop(t *testing.T) {
	restore := Enable(false)
	defer restore()

	Trap("should not panic: %d", 1)
}

func TestTrapEnabledPanics(t *testing.T) {
	restore := Enable(true)
	defer restore()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		var te TrapError
		err, ok := r.(error)
		if !ok || !errors.As(err, &te) {
			t.Fatalf("panic value = %#v, want TrapError", r)
		}
		if te.Msg != "bad 42" {
			t.Errorf("Msg = %q", te.Msg)
		}
	}()
	Trap("bad %d", 42)
}

func TestEnableRestore(t *testing.T) {
	before := Enabled()
	restore := Enable(!before)
	if Enabled() == before {
		t.Fatal("Enable did not switch state")
	}
	restore()
	if Enabled() != before {
		t.Fatal("restore did not bring back previous state")
	}
}
