package resource

import (
	"fmt"
	"math/rand/v2"

	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
)

const (
	indexBits = 16
	tokenMask = 1<<indexBits - 1

	// MaxIndex is the highest addressable slot.
	MaxIndex = 1<<16 - 1
	// MaxToken is the highest token a live slot can carry.
	MaxToken = 1<<16 - 2
	// DeletedToken marks a handle explicitly invalidated by its owner.
	DeletedToken = MaxToken + 1
)

// Handle refers to one slot of a Manager without owning it.
// The packed value is index<<16 | token. Copying a handle is free and never
// changes a reference count.
type Handle[T Resource[T]] struct {
	raw uint32
	mgr *Manager[T]
}

// NullHandle returns the zero handle.
func NullHandle[T Resource[T]]() Handle[T] {
	return Handle[T]{}
}

// DeletedHandle returns the sentinel {index 0, token DeletedToken}.
func DeletedHandle[T Resource[T]]() Handle[T] {
	return Handle[T]{raw: pack(0, DeletedToken)}
}

// FromRaw decodes a wire value. The result is not bound to a manager.
func FromRaw[T Resource[T]](raw uint32) Handle[T] {
	return Handle[T]{raw: raw}
}

func pack(index, token uint32) uint32 {
	return index<<indexBits | token&tokenMask
}

// drawToken returns a token in [1, MaxToken] different from avoid.
func drawToken(rng *rand.Rand, avoid uint32) uint32 {
	for {
		tok := uint32(rng.IntN(1 << 16))
		if tok == 0 || tok == DeletedToken || tok == avoid {
			continue
		}
		return tok
	}
}

// Init binds a null handle to index and mgr with a freshly drawn token.
// Binding a handle that is already non-null is refused.
func (h *Handle[T]) Init(index int, mgr *Manager[T]) error {
	if h.raw != 0 {
		logging.New("handle").Error("handle already initialized", "handle", h.String())
		return errs.AlreadyExists("Handle.Init", h.String())
	}
	if index < 0 || index > MaxIndex {
		return errs.InvalidArgument("Handle.Init", "index %d out of range", index)
	}
	rng := fallbackRNG
	if mgr != nil {
		rng = mgr.rng
	}
	h.raw = pack(uint32(index), drawToken(rng, 0))
	h.mgr = mgr
	return nil
}

var fallbackRNG = rand.New(rand.NewPCG(0x5eed, 0xf00d))

// Index returns the slot index.
func (h Handle[T]) Index() int { return int(h.raw >> indexBits) }

// Token returns the generation token.
func (h Handle[T]) Token() uint32 { return h.raw & tokenMask }

// Raw returns the packed wire value.
func (h Handle[T]) Raw() uint32 { return h.raw }

// Manager returns the owning manager, or nil.
func (h Handle[T]) Manager() *Manager[T] { return h.mgr }

// IsNull reports whether the packed value is zero.
func (h Handle[T]) IsNull() bool { return h.raw == 0 }

// IsDeleted reports whether the handle carries the deleted sentinel token.
func (h Handle[T]) IsDeleted() bool { return h.Token() == DeletedToken }

// IsValid asks the owning manager whether the handle still resolves.
func (h Handle[T]) IsValid() bool {
	if h.mgr == nil {
		return false
	}
	return h.mgr.Valid(h)
}

// IsDangling reports a non-null handle whose object can no longer be resolved.
func (h Handle[T]) IsDangling() bool {
	return !h.IsNull() && (h.mgr == nil || !h.mgr.Valid(h))
}

// Equal compares packed values only.
func (h Handle[T]) Equal(o Handle[T]) bool { return h.raw == o.raw }

func (h Handle[T]) String() string {
	switch {
	case h.IsNull():
		return "Handle(null)"
	case h.IsDeleted():
		return fmt.Sprintf("Handle(%d:deleted)", h.Index())
	default:
		return fmt.Sprintf("Handle(%d:%d)", h.Index(), h.Token())
	}
}

// Object resolves the handle through its manager.
func (h Handle[T]) Object() (T, error) {
	if h.mgr == nil {
		var zero T
		return zero, errs.BadHandle("Handle.Object", h)
	}
	return h.mgr.Object(h)
}

// Name returns the resource name, or "" when unresolvable.
func (h Handle[T]) Name() string {
	if h.mgr == nil {
		return ""
	}
	name, err := h.mgr.Name(h)
	if err != nil {
		return ""
	}
	return name
}

// ID returns the object identity, or InvalidID when unresolvable.
func (h Handle[T]) ID() object.ID {
	if h.mgr == nil {
		return object.InvalidID
	}
	id, err := h.mgr.ObjectID(h)
	if err != nil {
		return object.InvalidID
	}
	return id
}

// RefCount returns the object's count, or 0 when unresolvable.
func (h Handle[T]) RefCount() uint32 {
	if h.mgr == nil {
		return 0
	}
	return h.mgr.RefCount(h)
}

// AddRef takes a reference through the manager. Calling it on a handle that
// was never obtained from a manager is a programming error.
func (h Handle[T]) AddRef() uint32 {
	if h.mgr == nil {
		logging.New("handle").Error("AddRef on unbound handle", "handle", h.String())
		debug.Trap("AddRef on unbound %s", h)
		return 0
	}
	n, err := h.mgr.AddRef(h)
	if err != nil {
		return 0
	}
	return n
}

// Release drops a reference through the manager.
func (h Handle[T]) Release() uint32 {
	if h.mgr == nil {
		return 0
	}
	n, err := h.mgr.Release(h)
	if err != nil {
		return 0
	}
	return n
}

// Property binds the named property of the referenced object.
// Its method value, h.Property, is what animation bindings keep.
func (h Handle[T]) Property(name string) (property.Accessor, error) {
	if h.mgr == nil {
		return property.Accessor{}, errs.BadHandle("Handle.Property", h)
	}
	return h.mgr.Property(h, name)
}
