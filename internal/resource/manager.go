// Package resource implements the generational handle table every engine
// subsystem is built on.
//
// A Manager owns its objects in a slot table. Callers never hold the objects
// themselves; they hold a Handle, a packed {index, token} value that the
// manager revalidates on every call. Freeing a slot and reusing it draws a new
// token, so handles captured before the reuse fail validation instead of
// resolving to the new occupant.
//
// Managers are single-writer: one frame loop drives Add, Remove and Release.
// Reference counts and instance counters are atomic so that a release
// triggered from a nested call cannot tear a count, but the slot table itself
// is not locked.
package resource

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
)

// Resource is the capability a type needs to live in a Manager: identity and
// reference counting from object.Base, plus Clone for GetCopy. Types that
// cannot be duplicated implement Clone by returning Base.Unclonable.
type Resource[T any] interface {
	object.Ownable
	Clone() (T, error)
}

type slot[T any] struct {
	obj   T
	name  string
	token uint32 // current token, kept after free so reuse can avoid it
	live  bool
}

// Manager owns the objects of one resource type.
type Manager[T Resource[T]] struct {
	kind     string
	slots    []slot[T]
	free     []int
	names    map[string]int
	ids      map[object.ID]int // nil unless WithIdentityIndex
	props    *property.Set[T]
	pending  []Handle[T]
	capacity int
	rng      *rand.Rand
	logger   *log.Logger

	live     atomic.Int64
	peak     atomic.Int64
	added    atomic.Uint64
	removed  atomic.Uint64
	clones   atomic.Uint64
	failures atomic.Uint64
}

// Option configures a Manager.
type Option[T Resource[T]] func(*Manager[T])

// WithIdentityIndex enables O(1) lookup by object.ID through ByID.
func WithIdentityIndex[T Resource[T]]() Option[T] {
	return func(m *Manager[T]) { m.ids = make(map[object.ID]int) }
}

// WithProperties attaches the type's property table.
func WithProperties[T Resource[T]](set *property.Set[T]) Option[T] {
	return func(m *Manager[T]) { m.props = set }
}

// WithLogger replaces the default prefixed logger.
func WithLogger[T Resource[T]](l *log.Logger) Option[T] {
	return func(m *Manager[T]) { m.logger = l }
}

// WithSeed makes token generation deterministic.
func WithSeed[T Resource[T]](seed int64) Option[T] {
	return func(m *Manager[T]) { m.rng = newRNG(seed) }
}

// WithCapacity limits the number of slots; Add fails with OutOfMemory beyond it.
func WithCapacity[T Resource[T]](n int) Option[T] {
	return func(m *Manager[T]) {
		if n > 0 && n <= MaxIndex+1 {
			m.capacity = n
		}
	}
}

func newRNG(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// NewManager creates an empty manager for the named resource kind.
func NewManager[T Resource[T]](kind string, opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{
		kind:     kind,
		slots:    make([]slot[T], 0, 64),
		free:     make([]int, 0, 16),
		names:    make(map[string]int),
		capacity: MaxIndex + 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = newRNG(time.Now().UnixNano())
	}
	if m.logger == nil {
		m.logger = logging.New(kind)
	}
	return m
}

// Kind returns the resource kind name.
func (m *Manager[T]) Kind() string { return m.kind }

// Properties returns the attached property table, or nil.
func (m *Manager[T]) Properties() *property.Set[T] { return m.props }

// Logger returns the manager's logger, for feature managers built on top.
func (m *Manager[T]) Logger() *log.Logger { return m.logger }

func (m *Manager[T]) op(name string) string { return m.kind + "." + name }

func (m *Manager[T]) fail(err *errs.Error) *errs.Error {
	m.failures.Add(1)
	m.logger.Error(string(err.Code), "op", err.Op, "subject", err.Subject, "detail", err.Detail)
	return err
}

// isNil catches both a nil interface and a typed nil pointer.
func isNil[T any](v T) bool {
	if any(v) == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// lookup resolves h without logging. A handle bound to another manager never
// resolves, even when its index and token happen to match a slot here.
func (m *Manager[T]) lookup(h Handle[T]) (*slot[T], bool) {
	if h.IsNull() || h.IsDeleted() || (h.mgr != nil && h.mgr != m) {
		return nil, false
	}
	idx := h.Index()
	if idx >= len(m.slots) {
		return nil, false
	}
	s := &m.slots[idx]
	if !s.live || s.token != h.Token() {
		return nil, false
	}
	return s, true
}

func (m *Manager[T]) handleFor(idx int) Handle[T] {
	return Handle[T]{raw: pack(uint32(idx), m.slots[idx].token), mgr: m}
}

// Valid reports whether h resolves to a live slot of this manager.
func (m *Manager[T]) Valid(h Handle[T]) bool {
	_, ok := m.lookup(h)
	return ok
}

// Add stores obj under name and returns a handle to it. The manager takes one
// reference. Names are unique per manager: adding an existing name fails with
// AlreadyExists, and Get is the way to share.
func (m *Manager[T]) Add(name string, obj T) (Handle[T], error) {
	if isNil(obj) {
		return Handle[T]{}, m.fail(errs.NullPointer(m.op("Add"), name))
	}
	if name == "" {
		return Handle[T]{}, m.fail(errs.InvalidArgument(m.op("Add"), "empty name"))
	}
	if _, exists := m.names[name]; exists {
		return Handle[T]{}, m.fail(errs.AlreadyExists(m.op("Add"), name))
	}

	var idx int
	switch {
	case len(m.free) > 0:
		idx = m.free[len(m.free)-1]
		m.free = m.free[:len(m.free)-1]
	case len(m.slots) < m.capacity:
		idx = len(m.slots)
		m.slots = append(m.slots, slot[T]{})
	default:
		return Handle[T]{}, m.fail(errs.New(m.op("Add"), errs.CodeOutOfMemory).
			Subject(name).
			Detail("all %d slots in use", m.capacity).
			Build())
	}

	s := &m.slots[idx]
	s.token = drawToken(m.rng, s.token)
	s.obj = obj
	s.name = name
	s.live = true

	obj.AddRef()
	m.names[name] = idx
	if m.ids != nil {
		m.ids[obj.ID()] = idx
	}

	m.added.Add(1)
	if n := m.live.Add(1); n > m.peak.Load() {
		m.peak.Store(n)
	}

	h := m.handleFor(idx)
	m.logger.Debug("added", "name", name, "handle", h.String(), "id", obj.ID())
	return h, nil
}

// Has reports whether name is registered, without logging.
func (m *Manager[T]) Has(name string) bool {
	_, ok := m.names[name]
	return ok
}

// Get returns a handle to the shared object registered under name.
// It does not clone and does not take a reference.
func (m *Manager[T]) Get(name string) (Handle[T], error) {
	idx, ok := m.names[name]
	if !ok {
		return Handle[T]{}, m.fail(errs.NotFound(m.op("Get"), name))
	}
	return m.handleFor(idx), nil
}

// GetCopy clones the template registered under name and adds the clone as a
// new, independent resource named "name#<id>".
func (m *Manager[T]) GetCopy(name string) (Handle[T], error) {
	idx, ok := m.names[name]
	if !ok {
		return Handle[T]{}, m.fail(errs.NotFound(m.op("GetCopy"), name))
	}

	clone, err := m.slots[idx].obj.Clone()
	if err != nil {
		m.failures.Add(1)
		return Handle[T]{}, fmt.Errorf("%s: clone %q: %w", m.op("GetCopy"), name, err)
	}
	if isNil(clone) {
		return Handle[T]{}, m.fail(errs.NullPointer(m.op("GetCopy"), name))
	}

	h, err := m.Add(fmt.Sprintf("%s#%d", name, uint32(clone.ID())), clone)
	if err != nil {
		if d, ok := any(clone).(object.Disposer); ok {
			d.Dispose()
		}
		return Handle[T]{}, err
	}
	m.clones.Add(1)
	return h, nil
}

// Object resolves h to the live object. The result is borrowed: no reference
// is taken, and it must not be kept past the current frame.
func (m *Manager[T]) Object(h Handle[T]) (T, error) {
	s, ok := m.lookup(h)
	if !ok {
		var zero T
		return zero, m.fail(errs.BadHandle(m.op("Object"), h))
	}
	return s.obj, nil
}

// ByID resolves an object identity. Requires WithIdentityIndex.
func (m *Manager[T]) ByID(id object.ID) (Handle[T], error) {
	if m.ids == nil {
		return Handle[T]{}, m.fail(errs.New(m.op("ByID"), errs.CodeUnexpected).
			Detail("identity index not enabled").
			Build())
	}
	idx, ok := m.ids[id]
	if !ok {
		return Handle[T]{}, m.fail(errs.NotFound(m.op("ByID"), id.String()))
	}
	return m.handleFor(idx), nil
}

// Name returns the name h was registered under.
func (m *Manager[T]) Name(h Handle[T]) (string, error) {
	s, ok := m.lookup(h)
	if !ok {
		return "", m.fail(errs.BadHandle(m.op("Name"), h))
	}
	return s.name, nil
}

// ObjectID returns the identity of the object behind h.
func (m *Manager[T]) ObjectID(h Handle[T]) (object.ID, error) {
	s, ok := m.lookup(h)
	if !ok {
		return object.InvalidID, m.fail(errs.BadHandle(m.op("ObjectID"), h))
	}
	return s.obj.ID(), nil
}

// RefCount returns the reference count behind h, or 0 for a bad handle.
func (m *Manager[T]) RefCount(h Handle[T]) uint32 {
	s, ok := m.lookup(h)
	if !ok {
		m.fail(errs.BadHandle(m.op("RefCount"), h))
		return 0
	}
	return s.obj.RefCount()
}

// AddRef takes an additional reference on the object behind h.
func (m *Manager[T]) AddRef(h Handle[T]) (uint32, error) {
	s, ok := m.lookup(h)
	if !ok {
		return 0, m.fail(errs.BadHandle(m.op("AddRef"), h))
	}
	return s.obj.AddRef(), nil
}

// Release drops one reference. When the count reaches zero the slot is freed
// and the object disposed. Releasing the null handle is a no-op.
func (m *Manager[T]) Release(h Handle[T]) (uint32, error) {
	if h.IsNull() {
		return 0, nil
	}
	s, ok := m.lookup(h)
	if !ok {
		return 0, m.fail(errs.BadHandle(m.op("Release"), h))
	}
	n := s.obj.Release()
	if n == 0 {
		m.free1(h.Index(), "released")
	}
	return n, nil
}

// Remove frees the slot behind h regardless of its reference count.
func (m *Manager[T]) Remove(h Handle[T]) error {
	s, ok := m.lookup(h)
	if !ok {
		return m.fail(errs.BadHandle(m.op("Remove"), h))
	}
	if n := s.obj.RefCount(); n > 1 {
		m.logger.Warn("removing object with outstanding references",
			"name", s.name, "handle", h.String(), "refs", n)
	}
	m.free1(h.Index(), "removed")
	return nil
}

// RemoveObject is Remove keyed by object identity.
func (m *Manager[T]) RemoveObject(obj T) error {
	if isNil(obj) {
		return m.fail(errs.NullPointer(m.op("RemoveObject"), "object"))
	}
	for i := range m.slots {
		s := &m.slots[i]
		if s.live && s.obj.ID() == obj.ID() {
			return m.Remove(m.handleFor(i))
		}
	}
	return m.fail(errs.NotFound(m.op("RemoveObject"), obj.Name()))
}

// QueueRemove defers removal of h to the next Sweep. Used by update passes
// that must not free slots of the list they are walking.
func (m *Manager[T]) QueueRemove(h Handle[T]) {
	if h.IsNull() {
		return
	}
	m.pending = append(m.pending, h)
}

// Sweep performs the queued removals and returns how many slots were freed.
// Handles that went stale in the meantime are skipped silently.
func (m *Manager[T]) Sweep() int {
	if len(m.pending) == 0 {
		return 0
	}
	batch := m.pending
	m.pending = nil

	n := 0
	for _, h := range batch {
		if _, ok := m.lookup(h); !ok {
			continue
		}
		m.free1(h.Index(), "swept")
		n++
	}
	return n
}

// Pending returns the number of queued removals.
func (m *Manager[T]) Pending() int { return len(m.pending) }

// free1 clears a slot, then disposes its object. Clearing first keeps the
// table consistent if Dispose releases other handles of this manager.
func (m *Manager[T]) free1(idx int, reason string) {
	s := &m.slots[idx]
	obj, name := s.obj, s.name

	var zero T
	s.obj = zero
	s.name = ""
	s.live = false
	delete(m.names, name)
	if m.ids != nil {
		delete(m.ids, obj.ID())
	}
	m.free = append(m.free, idx)

	m.live.Add(-1)
	m.removed.Add(1)
	m.logger.Debug(reason, "name", name, "index", idx, "id", obj.ID())

	if d, ok := any(obj).(object.Disposer); ok {
		d.Dispose()
	}
}

// Each calls fn for every live object in slot order until fn returns false.
// Slots freed during the walk are skipped; slots appended during the walk are
// not visited.
func (m *Manager[T]) Each(fn func(Handle[T], T) bool) {
	n := len(m.slots)
	for i := 0; i < n && i < len(m.slots); i++ {
		s := m.slots[i]
		if !s.live {
			continue
		}
		if !fn(m.handleFor(i), s.obj) {
			return
		}
	}
}

// Handles returns the live handles in slot order.
func (m *Manager[T]) Handles() []Handle[T] {
	out := make([]Handle[T], 0, m.Count())
	m.Each(func(h Handle[T], _ T) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Count returns the number of live objects.
func (m *Manager[T]) Count() int {
	return int(m.live.Load())
}

// Property binds the named property of the object behind h.
// Asking for properties of a type that declares none is a programming error.
func (m *Manager[T]) Property(h Handle[T], name string) (property.Accessor, error) {
	if m.props == nil {
		m.logger.Error("type declares no properties", "property", name)
		debug.Trap("%s declares no properties (asked for %q)", m.kind, name)
		return property.Accessor{}, m.fail(errs.New(m.op("Property"), errs.CodeUnexpected).
			Subject(name).
			Detail("no property set").
			Build())
	}
	s, ok := m.lookup(h)
	if !ok {
		return property.Accessor{}, m.fail(errs.BadHandle(m.op("Property"), h))
	}
	return m.props.Get(s.obj, name)
}

// Entry is an inspection snapshot of one live slot.
type Entry struct {
	Handle   uint32
	Index    int
	Name     string
	ID       object.ID
	RefCount uint32
}

// Entries snapshots the live slots, sorted by name.
func (m *Manager[T]) Entries() []Entry {
	out := make([]Entry, 0, m.Count())
	for i := range m.slots {
		s := &m.slots[i]
		if !s.live {
			continue
		}
		out = append(out, Entry{
			Handle:   pack(uint32(i), s.token),
			Index:    i,
			Name:     s.name,
			ID:       s.obj.ID(),
			RefCount: s.obj.RefCount(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Describe lists the declared properties, or nil without a property set.
func (m *Manager[T]) Describe() []property.Descriptor {
	if m.props == nil {
		return nil
	}
	return m.props.Describe()
}

// Values snapshots every property of the slot behind a wire handle.
func (m *Manager[T]) Values(raw uint32) (map[string]property.Value, error) {
	h := Handle[T]{raw: raw, mgr: m}
	s, ok := m.lookup(h)
	if !ok {
		return nil, m.fail(errs.BadHandle(m.op("Values"), h))
	}
	if m.props == nil {
		return map[string]property.Value{}, nil
	}
	return m.props.Snapshot(s.obj), nil
}

// Stats are the manager's instance counters.
type Stats struct {
	Kind     string
	Live     int
	Peak     int
	Slots    int
	Added    uint64
	Removed  uint64
	Clones   uint64
	Failures uint64
}

// Stats returns a snapshot of the counters.
func (m *Manager[T]) Stats() Stats {
	return Stats{
		Kind:     m.kind,
		Live:     int(m.live.Load()),
		Peak:     int(m.peak.Load()),
		Slots:    len(m.slots),
		Added:    m.added.Load(),
		Removed:  m.removed.Load(),
		Clones:   m.clones.Load(),
		Failures: m.failures.Load(),
	}
}

// Shutdown frees every slot and returns the entries that were still
// referenced by someone other than the manager (leaks).
func (m *Manager[T]) Shutdown() []Entry {
	var leaks []Entry
	for _, e := range m.Entries() {
		if e.RefCount > 1 {
			leaks = append(leaks, e)
			m.logger.Warn("leaked at shutdown", "name", e.Name, "refs", e.RefCount)
		}
	}

	for i := range m.slots {
		if m.slots[i].live {
			m.free1(i, "shutdown")
		}
	}
	m.pending = nil
	return leaks
}
