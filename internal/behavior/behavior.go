// Package behavior provides the built-in game object behaviors. Importing it
// registers spin, drift, fade and pulse with the registry.
package behavior

import (
	"fmt"

	"github.com/vovakirdan/zengine/internal/registry"
)

// bump reads a float property, applies fn and writes the result back.
func bump(t registry.Target, name string, fn func(float32) float32) (float32, error) {
	acc, err := t.Property(name)
	if err != nil {
		return 0, fmt.Errorf("behavior: %s: %w", name, err)
	}
	v, err := acc.GetFloat()
	if err != nil {
		return 0, err
	}
	v = fn(v)
	return v, acc.SetFloat(v)
}
