package dialect

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quillsql/quill/registry"
)

// A Dialect is the plugin object produced by the Dialects registry. It
// describes one database backend variant and knows how to open connections
// to it.
type Dialect interface {
	// Name returns the canonical dialect family, e.g. "postgres".
	Name() string
	// DriverName returns the registered database/sql driver name used by
	// this variant, e.g. "pq".
	DriverName() string
	// Open opens a connection to the database and returns a Driver for it.
	Open(dsn string) (Driver, error)
}

var (
	providersMu sync.RWMutex
	providers   = make(map[string]map[string]Dialect)
)

// RegisterProvider publishes the driver variants of one dialect family into
// the provider namespace consulted by the Dialects registry. It is intended
// to be called from the init function of a dialect package, in the manner of
// database/sql driver registration. The variants map must contain a "base"
// entry. Registering the same family twice panics.
func RegisterProvider(family string, variants map[string]Dialect) {
	providersMu.Lock()
	defer providersMu.Unlock()
	if _, dup := providers[family]; dup {
		panic("dialect: RegisterProvider called twice for provider " + family)
	}
	if _, ok := variants[registry.DefaultVariant]; !ok {
		panic("dialect: provider " + family + " has no base variant")
	}
	providers[family] = variants
}

// Providers returns the sorted families present in the provider namespace.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	families := make([]string, 0, len(providers))
	for f := range providers {
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}

// autoDialect is the default resolver of the Dialects registry. It plugs
// into the registry as a first-hit system: locate the provider family, then
// the requested variant within it.
func autoDialect(name string) (registry.Factory[Dialect], error) {
	family, variant := registry.Split(name)
	providersMu.RLock()
	variants, ok := providers[family]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no dialect provider registered under %q (missing import of the dialect package?)", family)
	}
	d, ok := variants[variant]
	if !ok {
		return nil, fmt.Errorf("provider %q has no driver variant %q", family, variant)
	}
	return func() Dialect { return d }, nil
}

// Dialects is the registry of database dialect plugins. Dialect packages
// register themselves on import through RegisterProvider; names resolve
// lazily on first Load. Legacy dialect names are translated to their
// canonical replacements with a one-time deprecation warning.
var Dialects = registry.New[Dialect]("quill.dialects",
	registry.WithResolver[Dialect](autoDialect),
	registry.WithAlias[Dialect]("postgresql", Postgres),
	registry.WithAlias[Dialect]("mariadb", MySQL),
	registry.WithAlias[Dialect]("sqlite3", SQLite),
)

// Lookup resolves a dialect name ("family" or "family.variant") through the
// Dialects registry and returns the dialect plugin.
func Lookup(name string) (Dialect, error) {
	f, err := Dialects.Load(name)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// Open resolves a dialect by name and opens a connection through it.
func Open(name, dsn string) (Driver, error) {
	d, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return d.Open(dsn)
}
