package efd

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lsst-sqre/efd-client-go/auth"
)

// Factory produces a connected Client for one deployment. Factories let
// deployments with unusual wiring (test stands, local replicas) customise
// how they connect while sharing the Client surface.
type Factory func(ctx context.Context, cfg Config) (*Client, error)

// Registry maps deployment names to connection factories.
//
// Thread Safety: all methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under a deployment name. Registering a name
// twice is ErrDuplicateDeployment.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDeployment, name)
	}
	r.factories[name] = f
	return nil
}

// Names returns the registered deployment names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connect dials the named deployment through its registered factory.
func (r *Registry) Connect(ctx context.Context, name string, cfg Config) (*Client, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDeployment, name)
	}
	return f(ctx, cfg)
}

// DefaultRegistry holds the observatory's standing deployments. Each entry
// connects through the credential service with stock settings.
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, name := range []string{
		"summit_efd",
		"usdf_efd",
		"base_efd",
		"tucson_teststand_efd",
		"idf_efd",
	} {
		name := name
		// Registration of fixed names into a fresh registry cannot fail.
		_ = r.Register(name, func(ctx context.Context, cfg Config) (*Client, error) {
			return Connect(ctx, name, cfg)
		})
	}
	return r
}()

// ListEFDNames returns the deployment names the credential service holds
// credentials for. Unlike Registry.Names, this reflects the live service,
// so it includes deployments added after this library was built.
func ListEFDNames(ctx context.Context, credsService string) ([]string, error) {
	return auth.NewServiceClient(credsService).ListAuth(ctx)
}
