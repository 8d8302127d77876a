// Package registry provides a named-plugin registry with lazy, first-hit
// resolution. A Registry maps textual plugin names to zero-argument factories.
// Names follow the "family" or "family.variant" form, where the variant
// defaults to "base".
//
// Lookups are memoized for the lifetime of the process: once a name resolves,
// the same factory is returned on every subsequent Load without consulting
// the resolver again. Failed lookups are never cached, so a plugin registered
// after a failed Load becomes visible to later calls.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultVariant is the variant assumed when a plugin name carries no
// explicit ".variant" suffix.
const DefaultVariant = "base"

// Factory produces a plugin instance. Factories must be safe to call
// multiple times.
type Factory[T any] func() T

// Resolver locates a factory for names missing from the cache. It returns
// the factory, or an error describing why no plugin exists under the name.
type Resolver[T any] func(name string) (Factory[T], error)

// ErrNotFound is returned when no plugin is registered under a requested
// name and the resolver cannot locate one.
var ErrNotFound = errors.New("registry: plugin not found")

// NotFoundError reports a failed plugin lookup.
type NotFoundError struct {
	Registry string // registry namespace
	Name     string // requested plugin name
	err      error  // resolver detail, may be nil
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("registry %s: can't load plugin %q: %s", e.Registry, e.Name, e.err)
	}
	return fmt.Sprintf("registry %s: can't load plugin %q", e.Registry, e.Name)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(err, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Unwrap returns the resolver error, if any.
func (e *NotFoundError) Unwrap() error {
	return e.err
}

// IsNotFound returns true if the error reports a failed plugin lookup.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// Registry resolves plugin names to factories. The zero value is not usable;
// use New. All methods are safe for concurrent use.
type Registry[T any] struct {
	name    string
	resolve Resolver[T]
	aliases map[string]string
	warn    func(alias, target string)
	warned  sync.Map // alias family -> struct{}, deprecation warned once
	group   singleflight.Group

	mu    sync.RWMutex
	cache map[string]Factory[T]
}

// Option configures a Registry.
type Option[T any] func(*Registry[T])

// WithResolver sets the fallback resolver consulted on cache miss.
// Without a resolver, only explicitly registered names load.
func WithResolver[T any](fn Resolver[T]) Option[T] {
	return func(r *Registry[T]) {
		r.resolve = fn
	}
}

// WithAlias maps a deprecated plugin family to its canonical replacement.
// Loading "alias" or "alias.variant" resolves as "target" or "target.variant"
// and logs a deprecation warning once per distinct alias.
func WithAlias[T any](alias, target string) Option[T] {
	return func(r *Registry[T]) {
		r.aliases[alias] = target
	}
}

// WithWarnFunc overrides the deprecation warning sink. The default logs
// through slog.
func WithWarnFunc[T any](fn func(alias, target string)) Option[T] {
	return func(r *Registry[T]) {
		r.warn = fn
	}
}

// New creates a registry scoped under the given namespace name.
func New[T any](name string, opts ...Option[T]) *Registry[T] {
	r := &Registry[T]{
		name:    name,
		aliases: make(map[string]string),
		cache:   make(map[string]Factory[T]),
	}
	r.warn = func(alias, target string) {
		slog.Warn("plugin name is deprecated", "registry", r.name, "name", alias, "use", target)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the registry namespace.
func (r *Registry[T]) Name() string {
	return r.name
}

// Register inserts a factory under the given name, bypassing the resolver.
// It replaces any previously cached factory for the name.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[name] = f
}

// Names returns the sorted names currently held in the cache.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cache))
	for name := range r.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves a plugin name to its factory. Cached names return the
// identical factory on every call. On cache miss the resolver is consulted,
// and its result cached before returning. An unresolvable name returns a
// NotFoundError; the negative result is not cached, so each failed lookup
// retries resolution.
func (r *Registry[T]) Load(name string) (Factory[T], error) {
	name = r.canonical(name)

	r.mu.RLock()
	f, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}
	if r.resolve == nil {
		return nil, &NotFoundError{Registry: r.name, Name: name}
	}

	// Concurrent misses on the same name share one resolver call.
	v, err, _ := r.group.Do(name, func() (any, error) {
		f, err := r.resolve(name)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[name] = f
		r.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, &NotFoundError{Registry: r.name, Name: name, err: err}
	}
	return v.(Factory[T]), nil
}

// canonical rewrites a deprecated family to its replacement, warning once
// per distinct alias.
func (r *Registry[T]) canonical(name string) string {
	family, variant := Split(name)
	target, ok := r.aliases[family]
	if !ok {
		return name
	}
	if _, dup := r.warned.LoadOrStore(family, struct{}{}); !dup {
		r.warn(family, target)
	}
	if variant == DefaultVariant && !strings.Contains(name, ".") {
		return target
	}
	return target + "." + variant
}

// Split breaks a plugin name into its family and variant parts. A name
// without a separator implies the default variant.
func Split(name string) (family, variant string) {
	family, variant, ok := strings.Cut(name, ".")
	if !ok {
		variant = DefaultVariant
	}
	return family, variant
}
