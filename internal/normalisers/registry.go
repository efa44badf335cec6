// Package normalisers turns uploaded documents into clean plain text.
package normalisers

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry picks a normaliser by MIME type. Normalisers are kept in
// descending priority order, so the first match wins.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser. Equal priorities keep registration order.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.normalisers), func(i int) bool {
		return r.normalisers[i].Priority() < normaliser.Priority()
	})
	r.normalisers = slices.Insert(r.normalisers, i, normaliser)
}

// Get returns the highest priority normaliser for mimeType, or nil.
func (r *Registry) Get(mimeType string) driven.Normaliser {
	mimeType = BaseMIMEType(mimeType)
	if mimeType == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.normalisers {
		if supports(n, mimeType) {
			return n
		}
	}
	return nil
}

// List returns the sorted set of registered MIME types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []string
	for _, n := range r.normalisers {
		types = append(types, n.SupportedTypes()...)
	}
	slices.Sort(types)
	return slices.Compact(types)
}

// BaseMIMEType lowercases mimeType and strips parameters such as charset.
func BaseMIMEType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// supports matches exact types and "major/*" wildcards.
func supports(n driven.Normaliser, mimeType string) bool {
	for _, t := range n.SupportedTypes() {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == mimeType {
			return true
		}
		if major, ok := strings.CutSuffix(t, "/*"); ok && strings.HasPrefix(mimeType, major+"/") {
			return true
		}
	}
	return false
}

// DefaultRegistry creates a registry with every built-in normaliser.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPlaintext())
	r.Register(NewHTML())
	r.Register(NewDOCX())
	r.Register(NewPDF())
	return r
}
