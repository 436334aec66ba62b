// Package registry provides a global registry for behavior factories.
// Behaviors register themselves in init() functions, allowing game objects
// to name their logic in scene files without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/zengine/internal/property"
)

// Target is what a behavior drives. Game object handles satisfy it; the
// behavior only sees the object through its properties, and every call
// revalidates the handle.
type Target interface {
	Property(name string) (property.Accessor, error)
}

// Behavior is per-object logic run once per frame.
// Instances are stateful and never shared between objects.
type Behavior interface {
	// ID returns the registered name (e.g., "spin", "fade").
	ID() string

	// Description returns a one-line summary for listings.
	Description() string

	// Update advances the behavior by dt seconds.
	// Returning alive == false asks the owner to destroy the object.
	Update(t Target, dt float32) (alive bool, err error)
}

// BehaviorInfo contains metadata about a registered behavior.
type BehaviorInfo struct {
	ID          string
	Description string
}

// Factory is a function that creates a new behavior instance.
type Factory func() Behavior

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a behavior factory to the registry.
// Typically called from a behavior's init() function.
// Panics if a behavior with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: behavior %q already registered", id))
	}

	factories[id] = f
	descriptions[id] = f().Description()
}

// List returns information about all registered behaviors, sorted by ID.
func List() []BehaviorInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BehaviorInfo, 0, len(factories))
	for id := range factories {
		result = append(result, BehaviorInfo{
			ID:          id,
			Description: descriptions[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new behavior by its ID.
// Returns an error if the behavior ID is not registered.
func Create(id string) (Behavior, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown behavior %q", id)
	}

	return f(), nil
}

// Exists checks if a behavior with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
