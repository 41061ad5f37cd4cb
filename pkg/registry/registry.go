package registry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry is a catalog mapping a component type tag to descriptive
// metadata and a renderable implementation. The two halves register
// independently; a type is renderable only when both are present.
//
// All lookups are total: absence is reported, never panicked on.
// Registration is last-write-wins, which is the documented policy for
// concurrent registration from independent engine instances.
type Registry struct {
	mu    sync.RWMutex
	meta  map[string]Metadata
	impls map[string]Implementation

	logger *slog.Logger
	debug  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDebug enables debug log lines on registration and unregistration.
func WithDebug(debug bool) Option {
	return func(r *Registry) {
		r.debug = debug
	}
}

// New creates a registry seeded with the built-in catalog.
func New(opts ...Option) *Registry {
	r := &Registry{
		meta:   make(map[string]Metadata),
		impls:  make(map[string]Implementation),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	seedBuiltins(r)
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, creating and seeding it on
// first access. It exists so components registered once during startup
// composition are visible to every engine instance; tests and embedders
// that want isolation construct their own with New.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Register upserts both halves of a component type at once.
func (r *Registry) Register(meta Metadata, impl Implementation) {
	r.RegisterMetadata(meta)
	r.RegisterImplementation(meta.Type, impl)
}

// RegisterMetadata upserts the metadata half of a type. Last write wins;
// overwriting is not an error.
func (r *Registry) RegisterMetadata(meta Metadata) {
	if meta.Type == "" {
		return
	}
	r.mu.Lock()
	r.meta[meta.Type] = meta
	r.mu.Unlock()

	if r.debug {
		r.logger.Debug("registry: metadata registered",
			"type", meta.Type, "category", string(meta.Category))
	}
}

// RegisterImplementation upserts the implementation half of a type.
func (r *Registry) RegisterImplementation(typ string, impl Implementation) {
	if typ == "" || impl == nil {
		return
	}
	r.mu.Lock()
	r.impls[typ] = impl
	r.mu.Unlock()

	if r.debug {
		r.logger.Debug("registry: implementation registered", "type", typ)
	}
}

// GetMetadata returns the metadata for typ, reporting absence explicitly.
func (r *Registry) GetMetadata(typ string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.meta[typ]
	return meta, ok
}

// GetImplementation returns the implementation for typ, reporting absence
// explicitly.
func (r *Registry) GetImplementation(typ string) (Implementation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.impls[typ]
	return impl, ok
}

// Has reports whether typ is renderable: both metadata and implementation
// must be present. A type with only one half registered is not ready.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, hasMeta := r.meta[typ]
	_, hasImpl := r.impls[typ]
	return hasMeta && hasImpl
}

// GetByCategory returns the metadata of every registered type in the
// given category, sorted by type tag.
func (r *Registry) GetByCategory(category Category) []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Metadata
	for _, meta := range r.meta {
		if meta.Category == category {
			out = append(out, meta)
		}
	}
	sortMetadata(out)
	return out
}

// Search returns every registered type whose type tag, display name, or
// description contains query, case-insensitively. Matches are unioned
// across the three fields.
func (r *Registry) Search(query string) []Metadata {
	query = strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Metadata
	for _, meta := range r.meta {
		if strings.Contains(strings.ToLower(meta.Type), query) ||
			strings.Contains(strings.ToLower(meta.Name), query) ||
			strings.Contains(strings.ToLower(meta.Description), query) {
			out = append(out, meta)
		}
	}
	sortMetadata(out)
	return out
}

// Unregister removes both halves of a type.
func (r *Registry) Unregister(typ string) {
	r.mu.Lock()
	delete(r.meta, typ)
	delete(r.impls, typ)
	r.mu.Unlock()

	if r.debug {
		r.logger.Debug("registry: unregistered", "type", typ)
	}
}

// Clear resets the registry to the built-in catalog. It is a reset, not a
// wipe: a baseline vocabulary of renderable primitives is always
// available afterwards.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.meta = make(map[string]Metadata)
	r.impls = make(map[string]Implementation)
	r.mu.Unlock()

	seedBuiltins(r)

	if r.debug {
		r.logger.Debug("registry: cleared and reseeded")
	}
}

// ExportMetadata returns a serializable snapshot of all registered
// metadata, sorted by type tag. It is an introspection surface for
// tooling and spec producers, not a rendering input.
func (r *Registry) ExportMetadata() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.meta))
	for _, meta := range r.meta {
		out = append(out, meta)
	}
	sortMetadata(out)
	return out
}

// Len returns the number of types with registered metadata.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.meta)
}

func sortMetadata(metas []Metadata) {
	sort.Slice(metas, func(i, j int) bool { return metas[i].Type < metas[j].Type })
}
