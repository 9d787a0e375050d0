package application

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dogmatiq/appserve/health"
)

// ErrUnknownApplication is returned when resolving a reference that has no
// registered application.
var ErrUnknownApplication = errors.New("unknown application")

// Dependencies are the services the bootstrapper makes available to every
// application.
type Dependencies struct {
	Logger *slog.Logger
	Health *health.State
	Debug  bool
}

// Factory constructs the handler for an application.
type Factory func(Dependencies) (http.Handler, error)

// Registry is a set of applications addressable by their [Reference].
type Registry struct {
	m         sync.RWMutex
	factories map[Reference]Factory
}

// Register adds an application to the registry.
//
// It panics if ref is not a valid reference, or if an application has already
// been registered under the same reference.
func (r *Registry) Register(ref string, f Factory) {
	key := MustParseReference(ref)

	if f == nil {
		panic(fmt.Sprintf("application %s has a nil factory", key))
	}

	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.factories[key]; ok {
		panic(fmt.Sprintf("application %s is already registered", key))
	}

	if r.factories == nil {
		r.factories = map[Reference]Factory{}
	}

	r.factories[key] = f
}

// Resolve constructs the handler for the application identified by ref.
func (r *Registry) Resolve(ref string, deps Dependencies) (http.Handler, error) {
	key, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}

	r.m.RLock()
	f, ok := r.factories[key]
	r.m.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unable to resolve %s: %w", key, ErrUnknownApplication)
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Health == nil {
		deps.Health = health.NewState()
	}

	h, err := f(deps)
	if err != nil {
		return nil, fmt.Errorf("unable to construct %s: %w", key, err)
	}

	return h, nil
}

// defaultRegistry holds applications registered by their own packages, in the
// same manner as database/sql drivers.
var defaultRegistry Registry

// Register adds an application to the default registry.
func Register(ref string, f Factory) {
	defaultRegistry.Register(ref, f)
}

// Resolve constructs an application from the default registry.
func Resolve(ref string, deps Dependencies) (http.Handler, error) {
	return defaultRegistry.Resolve(ref, deps)
}
