// Package object provides the reference-counted base embedded by every
// resource type, and the Ownable capability the resource managers require.
//
// A Base gets its identity from Init. Identity and reference count are never
// copied: clones call InitFrom, which draws a new identity and starts the
// count at zero. Base only counts: releasing it to zero frees nothing. A
// managed object is released through its handle or Manager.Release, which
// frees the slot and disposes of the object when the count reaches zero. A
// direct Base.Release leaves the slot live until Remove or Shutdown.
package object

import (
	"fmt"
	"sync/atomic"

	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
)

// ID is the process-unique identity of an object.
type ID uint32

const (
	// InvalidID is returned for objects that cannot be resolved.
	InvalidID ID = 0
	// SystemID is reserved for engine-owned objects that are never managed.
	SystemID ID = 1
)

var lastID atomic.Uint32

func init() {
	lastID.Store(uint32(SystemID))
}

// NextID draws a fresh identity.
func NextID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	switch id {
	case InvalidID:
		return "invalid"
	case SystemID:
		return "system"
	default:
		return fmt.Sprintf("#%d", uint32(id))
	}
}

// Ownable is implemented by every type a resource manager can own.
// Embedding *Base's methods through a Base field satisfies it.
type Ownable interface {
	ID() ID
	Name() string
	AddRef() uint32
	Release() uint32
	RefCount() uint32
}

// Disposer is implemented by objects that own other resources (child handles,
// buffers). Dispose runs once, when the owning manager frees the slot.
type Disposer interface {
	Dispose()
}

// Base is the intrusive identity and reference count.
// It must not be copied after Init.
type Base struct {
	id   ID
	refs atomic.Uint32
	name string
}

// Init assigns a new identity and resets the count.
func (b *Base) Init(name string) {
	b.id = NextID()
	b.refs.Store(0)
	b.name = name
}

// InitFrom initializes b as a copy of src: same name, new identity, zero count.
func (b *Base) InitFrom(src *Base) {
	b.Init(src.name)
}

// ID returns the identity, or InvalidID for an uninitialized base.
func (b *Base) ID() ID {
	return b.id
}

// Name returns the debug name.
func (b *Base) Name() string {
	return b.name
}

// SetName replaces the debug name.
func (b *Base) SetName(name string) {
	b.name = name
}

// RefCount returns the current count.
func (b *Base) RefCount() uint32 {
	return b.refs.Load()
}

// AddRef increments the count and returns the new value.
func (b *Base) AddRef() uint32 {
	return b.refs.Add(1)
}

// Release decrements the count and returns the new value.
// Releasing an object whose count is already zero is a double release:
// it is logged and trapped, and the count stays at zero.
func (b *Base) Release() uint32 {
	for {
		cur := b.refs.Load()
		if cur == 0 {
			logging.New("object").Error("release underflow", "id", b.id, "name", b.name)
			debug.Trap("object %s (%q): release underflow", b.id, b.name)
			return 0
		}
		if b.refs.CompareAndSwap(cur, cur-1) {
			return cur - 1
		}
	}
}

// Unclonable is the default Clone behaviour for types that do not support
// duplication. It logs, traps, and returns an Unexpected error.
func (b *Base) Unclonable(kind string) error {
	logging.New("object").Error("clone not supported", "kind", kind, "id", b.id, "name", b.name)
	debug.Trap("%s %q does not support Clone", kind, b.name)
	return errs.New(kind+".Clone", errs.CodeUnexpected).
		Subject(b.name).
		Detail("type does not support cloning").
		Build()
}
