// Package registry holds the table of declared test units.
//
// Units are appended as they are declared, usually from package-level
// variable initializers, and receive dense zero-based ordinals in
// declaration order. Nothing is ever removed.
package registry

import (
	"sync"

	"github.com/roach88/testh/internal/unit"
)

// Registry is an append-only list of units.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	units []unit.Unit
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Default is the process-wide registry used by the public API.
var Default = New()

// Add declares a unit and returns its ordinal.
func (r *Registry) Add(name, file string, line int, body func(*unit.T)) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordinal := len(r.units)
	r.units = append(r.units, unit.Unit{
		Ordinal: ordinal,
		Name:    name,
		File:    file,
		Line:    line,
		Body:    body,
	})
	return ordinal
}

// Lookup resolves an ordinal to its unit.
func (r *Registry) Lookup(ordinal int) (unit.Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ordinal < 0 || ordinal >= len(r.units) {
		return unit.Unit{}, false
	}
	return r.units[ordinal], true
}

// Units returns a snapshot of all units in ordinal order.
func (r *Registry) Units() []unit.Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]unit.Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Len returns the number of declared units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
