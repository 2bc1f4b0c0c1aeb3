package probe

import (
	"context"
	"sync"
)

// Info describes a registered prober for UI discovery.
type Info struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// ProberFunc attempts a single live connection with the given parameters
// and returns nil on success. Implementations open their own connection
// and close it before returning; no pooling, no reuse.
type ProberFunc func(ctx context.Context, p Params) error

// Registration contains info plus the prober for one engine type.
type Registration struct {
	Info   Info
	Prober ProberFunc
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register is called by each engine's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredEngines returns info for all registered probers.
func RegisteredEngines() []Info {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Info, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// GetProber returns the prober for an engine type, or nil if the type
// is not registered.
func GetProber(engineType string) ProberFunc {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[engineType]; ok {
		return reg.Prober
	}
	return nil
}

// IsRegistered checks if a prober is available for an engine type.
func IsRegistered(engineType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[engineType]
	return ok
}
