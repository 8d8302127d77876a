package profile

import (
	"runtime"
	"strings"
)

// Env describes the runtime environment a measurement was taken under.
// Two processes running on identical environments must produce identical
// platform keys, so every field is derived deterministically.
type Env struct {
	// Version is the language runtime version, e.g. "1.24".
	Version string
	// Dialect is the driver family, e.g. "postgres".
	Dialect string
	// Driver is the driver name within the family, e.g. "pq".
	Driver string
	// Tags holds optional runtime tags appended in order, e.g. "win".
	Tags []string
	// NativeUnicode reports whether the driver handles unicode natively.
	NativeUnicode bool
	// CExtensions reports whether native extensions (cgo) are enabled.
	CExtensions bool
}

// DefaultEnv returns the environment of the current process for the given
// dialect family and driver name.
func DefaultEnv(family, driver string) Env {
	var tags []string
	if runtime.GOOS == "windows" {
		tags = append(tags, "win")
	}
	return Env{
		Version:       langVersion(),
		Dialect:       family,
		Driver:        driver,
		Tags:          tags,
		NativeUnicode: true,
		CExtensions:   cgoEnabled,
	}
}

// PlatformKey builds the underscore-joined platform key:
// version, family, driver, optional tags, then exactly one unicode token
// and one extensions token.
func (e Env) PlatformKey() string {
	tokens := []string{e.Version, e.Dialect, e.Driver}
	tokens = append(tokens, e.Tags...)
	if e.NativeUnicode {
		tokens = append(tokens, "nativeunicode")
	} else {
		tokens = append(tokens, "dbapiunicode")
	}
	if e.CExtensions {
		tokens = append(tokens, "cextensions")
	} else {
		tokens = append(tokens, "nocextensions")
	}
	return strings.Join(tokens, "_")
}

// langVersion reduces runtime.Version to its major.minor form,
// e.g. "go1.24.5" becomes "1.24".
func langVersion() string {
	v := strings.TrimPrefix(runtime.Version(), "go")
	parts := strings.SplitN(v, ".", 3)
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return v
}
