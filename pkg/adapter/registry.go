package adapter

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Factory builds an unconnected adapter. A nil logger means discard.
type Factory func(*slog.Logger) Adapter

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

func normalizeType(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register makes a warehouse type available to NewAdapter. Adapter packages
// call it from init; registering the same type twice panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := normalizeType(name)
	if _, dup := factories[key]; dup {
		panic(fmt.Sprintf("adapter: %q registered twice", key))
	}
	factories[key] = factory
}

// Get returns the factory for a warehouse type. Lookup ignores case.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[normalizeType(name)]
	return f, ok
}

// NewAdapter builds the adapter for cfg.Type. The result still needs Connect.
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if normalizeType(cfg.Type) == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger.With(slog.String("adapter", normalizeType(cfg.Type)))), nil
}

// ListAdapters returns the registered warehouse types, sorted.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether NewAdapter can build the warehouse type.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError reports a target.type nothing registered.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %s\nHint: set target.type in olistflow.yaml or OLISTFLOW_TARGET__TYPE",
		e.Type, strings.Join(e.Available, ", "))
}
