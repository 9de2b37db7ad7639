// Package observability provides hooks for logging and metrics around graph
// parsing and rendering.
//
// Libraries in graf emit events through the registered hooks; they never
// depend on a logging or metrics backend themselves. The defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetParseHooks(&myParseHooks{})
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// The parser and renderer call them:
//
//	observability.Parse().OnParseStart(source)
//	// ... parse ...
//	observability.Parse().OnParseComplete(source, nodes, edges, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Parse Hooks
// =============================================================================

// ParseHooks receives events from the GrAF XML parser.
type ParseHooks interface {
	// OnParseStart is called before a document is read. source is a file
	// path or annotation type name, or "" for anonymous readers.
	OnParseStart(source string)
	// OnParseComplete is called once per document, dependencies included.
	OnParseComplete(source string, nodes, edges int, duration time.Duration, err error)
	// OnDependency is called after a dependsOn layer was resolved, parsed and
	// merged (or failed to be).
	OnDependency(typeName string, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the GrAF XML renderer and graph exports.
type RenderHooks interface {
	// OnRenderComplete is called after a graph was written in format
	// ("graf", "dot", "svg").
	OnRenderComplete(format string, nodes, edges int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopParseHooks is a no-op implementation of ParseHooks.
type NoopParseHooks struct{}

func (NoopParseHooks) OnParseStart(string)                                    {}
func (NoopParseHooks) OnParseComplete(string, int, int, time.Duration, error) {}
func (NoopParseHooks) OnDependency(string, time.Duration, error)              {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderComplete(string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	parseHooks  ParseHooks  = NoopParseHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetParseHooks registers custom parse hooks.
// This should be called once at application startup before any parsing.
func SetParseHooks(h ParseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		parseHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Parse returns the registered parse hooks.
func Parse() ParseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return parseHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	parseHooks = NoopParseHooks{}
	renderHooks = NoopRenderHooks{}
}
