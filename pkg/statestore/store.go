package statestore

import (
	"log/slog"
	"sort"
	"sync"
)

// Listener receives the new value at a subscribed path.
type Listener func(value any)

// ChangeCallback mirrors every successful (non-no-op) Set outward, for
// callers who want to forward state changes to a transport without
// subscribing per-path.
type ChangeCallback func(path string, value any)

// pendingWrite is a buffered write queued while a batch is open.
type pendingWrite struct {
	path   string
	value  any
	delete bool
}

// Store is a hierarchical, path-addressable reactive key-value space.
//
// A dotted path ("a.b.c") addresses a leaf or sub-mapping in a nested
// map[string]any tree. Each exact path string may carry any number of
// subscribers; writes notify the written path and, with the current value
// at each level, every strict ancestor. Values are deep-copied on both
// the write and read boundary so callers never alias store internals.
//
// All operations are safe for concurrent use. Notifications for a single
// non-batched Set are delivered synchronously, in full, before Set
// returns.
type Store struct {
	mu    sync.RWMutex
	state map[string]any

	subMu   sync.Mutex
	subs    map[string]map[uint64]Listener
	nextSub uint64

	batchMu    sync.Mutex
	batchDepth int
	pending    []pendingWrite

	onChange ChangeCallback
	logger   *slog.Logger
	debug    bool
}

// Option configures a Store.
type Option func(*Store)

// WithInitialState seeds the store with a deep copy of state.
func WithInitialState(state map[string]any) Option {
	return func(s *Store) {
		if state != nil {
			s.state = Clone(state).(map[string]any)
		}
	}
}

// WithLogger sets the logger used for listener failures and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebug enables debug log lines on state mutation.
func WithDebug(debug bool) Option {
	return func(s *Store) {
		s.debug = debug
	}
}

// WithChangeCallback sets the callback invoked on every successful Set.
func WithChangeCallback(fn ChangeCallback) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		state:  make(map[string]any),
		subs:   make(map[string]map[uint64]Listener),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a deep copy of the value at path, or nil if any segment is
// missing, a non-mapping value is encountered before the path is
// exhausted, or the path is malformed. Never panics.
func (s *Store) Get(path string) any {
	return s.GetOr(path, nil)
}

// GetOr is Get with a caller-supplied default for absent paths.
func (s *Store) GetOr(path string, def any) any {
	segments := splitPath(path)
	if segments == nil {
		return def
	}

	s.mu.RLock()
	value, ok := lookup(s.state, segments)
	s.mu.RUnlock()

	if !ok {
		return def
	}
	return Clone(value)
}

// Set writes a deep copy of value at path, creating intermediate mappings
// as needed and overwriting any non-mapping value found along the way.
//
// A write that is deep-equal to the existing value is a no-op: no
// mutation, no notification. While a batch is open the write is queued
// instead of applied. A malformed path is a no-op.
func (s *Store) Set(path string, value any) {
	if splitPath(path) == nil {
		return
	}
	if s.enqueue(pendingWrite{path: path, value: value}) {
		return
	}
	s.applySet(path, value)
}

// Delete removes the leaf at path if present and notifies subscribers of
// that exact path with nil. A missing path, a missing parent mapping, or
// a malformed path is a no-op. While a batch is open the delete is queued
// like a write.
func (s *Store) Delete(path string) {
	if splitPath(path) == nil {
		return
	}
	if s.enqueue(pendingWrite{path: path, delete: true}) {
		return
	}
	s.applyDelete(path)
}

// Subscribe registers listener against the exact path string (no globs)
// and returns a function that removes the registration. The returned
// function is idempotent and safe to call from within a notification.
func (s *Store) Subscribe(path string, listener Listener) func() {
	if listener == nil {
		return func() {}
	}

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	set, ok := s.subs[path]
	if !ok {
		set = make(map[uint64]Listener)
		s.subs[path] = set
	}
	set[id] = listener
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		if set, ok := s.subs[path]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(s.subs, path)
			}
		}
		s.subMu.Unlock()
	}
}

// BatchStart opens a transaction boundary. Batches are reentrant: writes
// are buffered until the matching BatchEnd returns the depth to zero.
func (s *Store) BatchStart() {
	s.batchMu.Lock()
	s.batchDepth++
	s.batchMu.Unlock()
}

// BatchEnd closes one level of batching. When the outermost level closes,
// buffered writes are replayed in call order with last-write-wins per
// path: a path written twice inside the batch is applied and notified
// once, with its final value.
func (s *Store) BatchEnd() {
	s.batchMu.Lock()
	if s.batchDepth == 0 {
		s.batchMu.Unlock()
		return
	}
	s.batchDepth--
	if s.batchDepth > 0 {
		s.batchMu.Unlock()
		return
	}
	pending := s.pending
	s.pending = nil
	s.batchMu.Unlock()

	s.flush(pending)
}

// Batch runs fn inside a batch, closing it even if fn panics.
func (s *Store) Batch(fn func()) {
	s.BatchStart()
	defer s.BatchEnd()
	fn()
}

// Snapshot returns a deep copy of the entire store for debugging and
// export. It must not be treated as a live reference.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.state).(map[string]any)
}

// Replace substitutes the store content wholesale and notifies every
// currently-subscribed path with its resolved value, nil where the path
// no longer exists. Replacement cannot economically diff against the
// prior tree, so this is deliberately broader than Set's notification.
func (s *Store) Replace(state map[string]any) {
	next := make(map[string]any)
	if state != nil {
		next = Clone(state).(map[string]any)
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("statestore: replace", "keys", len(next))
	}

	for _, path := range s.subscribedPaths() {
		s.notifyPath(path, s.Get(path))
	}
}

// Clear empties the store, with Replace's notification semantics.
func (s *Store) Clear() {
	s.Replace(nil)
}

// enqueue buffers the write if a batch is open and reports whether it did.
func (s *Store) enqueue(w pendingWrite) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	if s.batchDepth == 0 {
		return false
	}
	s.pending = append(s.pending, w)
	return true
}

// flush replays buffered writes in call order, skipping writes superseded
// by a later write to the same path.
func (s *Store) flush(pending []pendingWrite) {
	last := make(map[string]int, len(pending))
	for i, w := range pending {
		last[w.path] = i
	}
	for i, w := range pending {
		if last[w.path] != i {
			continue
		}
		if w.delete {
			s.applyDelete(w.path)
		} else {
			s.applySet(w.path, w.value)
		}
	}
}

// applySet performs the actual write and notification for Set.
func (s *Store) applySet(path string, value any) {
	segments := splitPath(path)

	s.mu.Lock()
	parent := s.descend(segments[:len(segments)-1])
	leaf := segments[len(segments)-1]
	existing, exists := parent[leaf]
	if exists && Equal(existing, value) {
		s.mu.Unlock()
		return
	}
	stored := Clone(value)
	parent[leaf] = stored
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("statestore: set", "path", path)
	}

	s.notifyPath(path, Clone(stored))
	s.notifyAncestors(path)

	if s.onChange != nil {
		s.onChange(path, Clone(stored))
	}
}

// applyDelete performs the actual removal and notification for Delete.
func (s *Store) applyDelete(path string) {
	segments := splitPath(path)

	s.mu.Lock()
	parent, ok := lookupMap(s.state, segments[:len(segments)-1])
	if !ok {
		s.mu.Unlock()
		return
	}
	leaf := segments[len(segments)-1]
	if _, exists := parent[leaf]; !exists {
		s.mu.Unlock()
		return
	}
	delete(parent, leaf)
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("statestore: delete", "path", path)
	}

	s.notifyPath(path, nil)
}

// descend walks segments from the root, creating intermediate mappings
// and overwriting non-mapping values found along the way. Caller holds mu.
func (s *Store) descend(segments []string) map[string]any {
	cur := s.state
	for _, seg := range segments {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			if existing, present := cur[seg]; present && s.debug {
				// Descending through a leaf discards it; surfaced as a
				// diagnostic so producers can spot accidental clobbers.
				s.logger.Warn("statestore: overwriting non-mapping value",
					"segment", seg, "kind", kindOf(existing))
			}
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	return cur
}

// notifyPath delivers value to listeners subscribed to exactly path.
// Listeners are invoked over a stable snapshot, so unsubscribing from
// within a listener cannot corrupt the in-progress pass, and a panicking
// listener is logged without blocking delivery to the rest.
func (s *Store) notifyPath(path string, value any) {
	s.subMu.Lock()
	set := s.subs[path]
	if len(set) == 0 {
		s.subMu.Unlock()
		return
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = set[id]
	}
	s.subMu.Unlock()

	for _, listener := range listeners {
		s.dispatch(path, listener, value)
	}
}

// notifyAncestors notifies each strict ancestor of path with the current
// value at that ancestor, so a listener on "user" learns that something
// under it changed. Descendant listeners are deliberately not reached by
// a direct write; only Replace and Clear notify that broadly.
func (s *Store) notifyAncestors(path string) {
	for _, ancestor := range ancestors(path) {
		if !s.hasListeners(ancestor) {
			continue
		}
		s.notifyPath(ancestor, s.Get(ancestor))
	}
}

// dispatch invokes one listener, isolating panics.
func (s *Store) dispatch(path string, listener Listener, value any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("statestore: listener panic", "path", path, "panic", r)
		}
	}()
	listener(value)
}

// hasListeners reports whether any listener is subscribed to exactly path.
func (s *Store) hasListeners(path string) bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs[path]) > 0
}

// subscribedPaths returns a sorted snapshot of all subscribed paths.
func (s *Store) subscribedPaths() []string {
	s.subMu.Lock()
	paths := make([]string, 0, len(s.subs))
	for path := range s.subs {
		paths = append(paths, path)
	}
	s.subMu.Unlock()
	sort.Strings(paths)
	return paths
}

// lookup walks segments from root and returns the addressed value.
func lookup(root map[string]any, segments []string) (any, bool) {
	cur := root
	for i, seg := range segments {
		value, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// lookupMap walks segments and returns the mapping they address.
// An empty segment list addresses the root.
func lookupMap(root map[string]any, segments []string) (map[string]any, bool) {
	cur := root
	for _, seg := range segments {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// kindOf names a value's kind for diagnostics.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, float32, int, int64, uint64:
		return "number"
	default:
		return "other"
	}
}
