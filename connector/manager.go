package connector

import (
	"sort"
	"sync"

	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
)

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager holds the providers registered by driver name.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes a provider available for a driver name. Providers call it
// from init.
func Register(driver string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[driver] = provider
}

func lookupProvider(driver string) (Provider, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[driver]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, bulkerr.Configurationf("connector", bulkerr.ErrUnknownDriver, "provider %s not registered", driver)
	}
	return provider, nil
}

// Drivers lists registered driver names.
func Drivers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	out := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
