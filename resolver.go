package conformity

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrPathNotRegistered is returned by [Resolver.Resolve] when no value or
// provider function has been registered for a path.
var ErrPathNotRegistered = errors.New("conformity: path not registered")

// ResolverStore caches resolved path values. Implementations must be safe
// for concurrent use. The built-in store is an in-memory map; supply your
// own to share resolutions across processes or bound the cache.
type ResolverStore interface {
	// Load returns the cached value for path, if present.
	Load(path string) (value any, ok bool)
	// Store caches value for path. If path is already present the existing
	// value is kept and returned, so concurrent resolvers converge on one
	// value per path.
	Store(path string, value any) any
	// Delete evicts path from the cache.
	Delete(path string)
}

type mapStore struct {
	mu     sync.Mutex
	values map[string]any
}

func newMapStore() *mapStore {
	return &mapStore{values: map[string]any{}}
}

func (s *mapStore) Load(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[path]
	return v, ok
}

func (s *mapStore) Store(path string, value any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.values[path]; ok {
		return existing
	}
	s.values[path] = value
	return value
}

func (s *mapStore) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, path)
}

// Resolver maps dotted paths such as "myapp.handlers.Order" to registered
// values. Values are registered eagerly with [Resolver.Register] or lazily
// with [Resolver.RegisterLazy]; lazy providers run at most once per path,
// with the result cached in the resolver's store.
type Resolver struct {
	mu        sync.RWMutex
	providers map[string]func() (any, error)
	store     ResolverStore
}

// NewResolver returns an empty resolver backed by an in-memory store.
func NewResolver() *Resolver {
	return &Resolver{
		providers: map[string]func() (any, error){},
		store:     newMapStore(),
	}
}

// NewResolverWithStore returns an empty resolver backed by store.
func NewResolverWithStore(store ResolverStore) *Resolver {
	if store == nil {
		panic("conformity: resolver store is nil")
	}
	return &Resolver{
		providers: map[string]func() (any, error){},
		store:     store,
	}
}

// Register binds path to a fixed value, replacing any previous
// registration. It panics on a malformed path.
func (r *Resolver) Register(path string, value any) {
	r.RegisterLazy(path, func() (any, error) { return value, nil })
}

// RegisterLazy binds path to a provider invoked on first resolution. It
// panics on a malformed path or nil provider.
func (r *Resolver) RegisterLazy(path string, provider func() (any, error)) {
	mustValidPath(path)
	if provider == nil {
		panic("conformity: nil provider for path " + path)
	}
	r.mu.Lock()
	r.providers[path] = provider
	r.store.Delete(path)
	r.mu.Unlock()
}

// Resolve returns the value registered for path, invoking and caching the
// provider on first use. Unregistered paths return an error wrapping
// [ErrPathNotRegistered].
func (r *Resolver) Resolve(path string) (any, error) {
	if v, ok := r.store.Load(path); ok {
		return v, nil
	}
	r.mu.RLock()
	provider, ok := r.providers[path]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPathNotRegistered, path)
	}
	// Run the provider outside the lock; slow providers must not block
	// unrelated registrations. On a race the store keeps the first value.
	v, err := provider()
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", path, err)
	}
	return r.store.Store(path, v), nil
}

// Known reports whether path has a registration.
func (r *Resolver) Known(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[path]
	return ok
}

// Reset drops all registrations and cached resolutions.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for path := range r.providers {
		r.store.Delete(path)
		delete(r.providers, path)
	}
}

func mustValidPath(path string) {
	if path == "" {
		panic("conformity: empty path")
	}
	if strings.ContainsAny(path, " \t\n") {
		panic(fmt.Sprintf("conformity: malformed path %q", path))
	}
}

var defaultResolver = NewResolver()

// DefaultResolver returns the process-wide resolver used by path fields
// unless overridden with UsingResolver.
func DefaultResolver() *Resolver { return defaultResolver }

// Register binds path to value on the default resolver.
func Register(path string, value any) { defaultResolver.Register(path, value) }

// RegisterLazy binds path to provider on the default resolver.
func RegisterLazy(path string, provider func() (any, error)) {
	defaultResolver.RegisterLazy(path, provider)
}

// Resolve resolves path against the default resolver.
func Resolve(path string) (any, error) { return defaultResolver.Resolve(path) }
