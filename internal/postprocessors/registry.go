package postprocessors

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// BuilderFunc creates a step from its settings. Settings use the same
// shapes TOML decoding produces (int64, []any), so a table from the config
// file can be passed through unchanged.
type BuilderFunc func(settings map[string]any) (driven.PostProcessor, error)

// Registry resolves step names to builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]BuilderFunc{}}
}

// NewDefaultRegistry returns a registry holding the chunker and classifier.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Register binds name to builder, replacing any earlier binding.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the named step.
func (r *Registry) Build(name string, settings map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: no post-processor named %q (have %v)", domain.ErrUnsupportedType, name, r.Names())
	}
	step, err := builder(settings)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return step, nil
}

// Names returns the registered step names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
