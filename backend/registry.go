package backend

import (
	"fmt"
	"sort"
	"sync"
)

// GatewayConstructor creates a Gateway from its configuration
type GatewayConstructor func(config GatewayConfig) (Gateway, error)

// Registry holds registered gateway constructors
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]GatewayConstructor
}

var globalRegistry = &Registry{
	constructors: make(map[string]GatewayConstructor),
}

// RegisterType registers a gateway constructor for a config type
func RegisterType(gatewayType string, constructor GatewayConstructor) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.constructors[gatewayType] = constructor
}

// GetTypeConstructor returns the constructor for a gateway type
func GetTypeConstructor(gatewayType string) (GatewayConstructor, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	constructor, ok := globalRegistry.constructors[gatewayType]
	if !ok {
		return nil, fmt.Errorf("unsupported gateway type: %s", gatewayType)
	}
	return constructor, nil
}

// RegisteredTypes returns the names of all registered gateway types, sorted
func RegisteredTypes() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	types := make([]string, 0, len(globalRegistry.constructors))
	for name := range globalRegistry.constructors {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// NewGateway builds the gateway described by config
func NewGateway(config GatewayConfig) (Gateway, error) {
	constructor, err := GetTypeConstructor(config.Type)
	if err != nil {
		return nil, err
	}
	return constructor(config)
}
