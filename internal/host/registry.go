package host

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Registry hosts the parameter definitions of a form, keyed by name.
// NOTE: Use NewRegistry to create a new Registry.
type Registry struct {
	mu          sync.RWMutex
	logger      hclog.Logger
	definitions map[string]pkg.Definition
	order       []string
}

// NewRegistry constructs a Registry.
func NewRegistry(logger hclog.Logger) *Registry {
	return &Registry{
		logger:      logger.Named("registry"),
		definitions: make(map[string]pkg.Definition),
	}
}

// Register adds a definition. Names are unique within a registry.
// Definitions are listed in registration order.
func (r *Registry) Register(def pkg.Definition) error {
	name := def.Spec().Name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateParameter, name)
	}

	r.definitions[name] = def
	r.order = append(r.order, name)

	r.logger.Debug("registered parameter", "parameter", name, "type", def.Descriptor().Type)
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (pkg.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return def, nil
}

// Definitions returns every registered definition in registration order.
func (r *Registry) Definitions() []pkg.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pkg.Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.definitions[name])
	}
	return out
}
