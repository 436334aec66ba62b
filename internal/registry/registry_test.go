package registry

import (
	"testing"

	"github.com/vovakirdan/zengine/internal/property"
)

type noop struct{ id string }

func (n noop) ID() string                           { return n.id }
func (n noop) Description() string                  { return "does nothing" }
func (n noop) Update(Target, float32) (bool, error) { return true, nil }

func TestRegisterCreateList(t *testing.T) {
	Register("test-noop", func() Behavior { return noop{id: "test-noop"} })

	if !Exists("test-noop") {
		t.Fatal("Exists() = false after Register")
	}
	b, err := Create("test-noop")
	if err != nil || b.ID() != "test-noop" {
		t.Fatalf("Create() = %v, %v", b, err)
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-noop" {
			found = info.Description == "does nothing"
		}
	}
	if !found {
		t.Error("List() missing registered behavior")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-behavior"); err == nil {
		t.Error("Create() of unknown id should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", func() Behavior { return noop{id: "test-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test-dup", func() Behavior { return noop{id: "test-dup"} })
}

// Target is satisfied by anything exposing properties by name.
var _ Target = targetFunc(nil)

type targetFunc func(string) (property.Accessor, error)

func (f targetFunc) Property(name string) (property.Accessor, error) { return f(name) }
