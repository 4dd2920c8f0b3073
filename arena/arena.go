// Package arena implements the single-generation allocation region that
// accounts for all green nodes and child slices, and holds the sidecar
// token-provenance metadata, produced by one parse. It is grounded on
// original_source's oak-core SyntaxArena, re-expressed in Go: each
// allocation is an ordinary garbage-collected heap allocation that the Arena
// only counts. There are no chunks and no chunk growth, and the Arena keeps
// no reference to what it allocated, so each value is reclaimed by the
// garbage collector once it is unreachable.
package arena

import "sync/atomic"

// MetadataIndex is a stable index into an Arena's metadata table. Indices
// survive DeepClone and are safe to serialize, unlike a pointer.
type MetadataIndex int

// NoMetadata is the zero value meaning "no provenance recorded".
const NoMetadata MetadataIndex = -1

// Arena is a single-writer allocation counter and metadata table for one
// parse generation.
// The zero value is not usable; construct with New.
//
// An Arena must not be used after the parse generation that owns it is
// retired; nothing enforces this at runtime (Go has no borrow checker), so
// callers should treat a *GreenNode handed out by an Arena as invalid once
// the Arena itself is discarded, matching the "no reclamation until drop"
// contract in the specification this package implements.
type Arena struct {
	metadata  []TokenProvenance
	id        int64
	allocated int
}

// TokenProvenance is the sidecar payload recorded for a leaf via
// AddMetadata. RawText preserves the literal lexeme exactly as it appeared
// in the source even when a grammar's AST builder would normally interpret
// it (e.g. a numeric literal with underscores, or an escaped string), and
// Synthesized marks leaves that the parser fabricated during error recovery
// rather than reading from the token stream.
type TokenProvenance struct {
	RawText     string
	Synthesized bool
}

var nextArenaID int64

// New creates a fresh, empty Arena.
func New() *Arena {
	id := atomic.AddInt64(&nextArenaID, 1)
	return &Arena{id: id}
}

// ID uniquely identifies this arena among those created in the current
// process; it is used only for debugging and has no bearing on tree
// equality.
func (a *Arena) ID() int64 {
	return a.id
}

// Alloc moves v into the arena and returns a stable pointer to it, valid for
// the arena's lifetime.
func Alloc[T any](a *Arena, v T) *T {
	p := new(T)
	*p = v
	a.allocated++
	return p
}

// AllocSlice copies items into a freshly allocated slice owned by the arena,
// preserving input order.
func AllocSlice[T any](a *Arena, items []T) []T {
	if len(items) == 0 {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	a.allocated += len(items)
	return out
}

// AllocSliceFillIter allocates a slice of length n and fills it by calling
// next() n times, preserving call order. It mirrors alloc_slice_fill_iter
// from the specification's arena contract, used by DeepClone to avoid
// materializing an intermediate slice of already-cloned children.
func AllocSliceFillIter[T any](a *Arena, n int, next func(i int) T) []T {
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = next(i)
	}
	a.allocated += n
	return out
}

// Allocated returns the number of individual values (nodes and slice
// elements combined) this arena has allocated so far. It is diagnostic only.
func (a *Arena) Allocated() int {
	return a.allocated
}

// AddMetadata appends p to the arena's metadata table and returns a stable
// index for later lookup via Metadata.
func (a *Arena) AddMetadata(p TokenProvenance) MetadataIndex {
	a.metadata = append(a.metadata, p)
	return MetadataIndex(len(a.metadata) - 1)
}

// Metadata looks up a previously recorded TokenProvenance by index. ok is
// false for NoMetadata or an out-of-range index.
func (a *Arena) Metadata(idx MetadataIndex) (TokenProvenance, bool) {
	if idx == NoMetadata || int(idx) < 0 || int(idx) >= len(a.metadata) {
		return TokenProvenance{}, false
	}
	return a.metadata[idx], true
}

// MetadataLen returns the number of entries in the metadata table.
func (a *Arena) MetadataLen() int {
	return len(a.metadata)
}
