package logplus

import (
	"reflect"
	"sync"

	"github.com/Station-Manager/logplus/internal/callstack"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// exclusionCacheSize bounds the per-function exclusion cache.
const exclusionCacheSize = 4096

// infrastructureLogging enables auto tracing inside infrastructure
// packages. Off by default: the tracer's own log calls would otherwise be
// traced as well.
var infrastructureLogging atomic.Bool

// SetInfrastructureLogging controls whether calls made in, or below, the
// infrastructure packages are auto traced. Enabling it traces the logging
// machinery itself and produces a very high log volume.
func SetInfrastructureLogging(enabled bool) {
	infrastructureLogging.Store(enabled)
}

// InfrastructureLogging reports whether infrastructure packages are traced.
func InfrastructureLogging() bool {
	return infrastructureLogging.Load()
}

var (
	infraMu       sync.RWMutex
	infraPackages = map[string]bool{
		reflect.TypeOf(Logger{}).PkgPath():          true,
		reflect.TypeOf(callstack.Frame{}).PkgPath(): true,
		reflect.TypeOf(zerolog.Logger{}).PkgPath():  true,
	}

	// exclusionCache maps a qualified function name to whether it belongs
	// to an infrastructure package.
	exclusionCache = mustExclusionCache()
)

func mustExclusionCache() *lru.Cache[string, bool] {
	c, err := lru.New[string, bool](exclusionCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// ExcludePackage adds a package path to the infrastructure packages that
// are never auto traced while exclusion is on.
func ExcludePackage(pkg string) {
	infraMu.Lock()
	defer infraMu.Unlock()
	infraPackages[pkg] = true
	exclusionCache.Purge()
}

// InfrastructurePackages returns the package paths excluded from auto
// tracing.
func InfrastructurePackages() []string {
	infraMu.RLock()
	defer infraMu.RUnlock()
	out := make([]string, 0, len(infraPackages))
	for p := range infraPackages {
		out = append(out, p)
	}
	return out
}

// isInfrastructure holds infraMu while filling the cache so that an entry
// computed before ExcludePackage cannot land after its Purge.
func isInfrastructure(function, pkg string) bool {
	if excluded, ok := exclusionCache.Get(function); ok {
		return excluded
	}
	infraMu.RLock()
	defer infraMu.RUnlock()
	excluded := infraPackages[pkg]
	exclusionCache.Add(function, excluded)
	return excluded
}

// withAutoTraceFunction is the trampoline frame of WithAutoTrace. Code
// below it in the stack is the caller that asked for tracing.
var withAutoTraceFunction = reflect.TypeOf(Logger{}).PkgPath() + ".WithAutoTrace"

// excludeFromLogging reports whether frame or any of its callers belongs
// to an infrastructure package. The walk ends at WithAutoTrace.
func excludeFromLogging(frame *Frame) bool {
	for f := frame; f != nil; f = f.Back() {
		if f.Module == emptyString || f.Function == withAutoTraceFunction {
			return false
		}
		if isInfrastructure(f.Function, f.Module) {
			return true
		}
	}
	return false
}
