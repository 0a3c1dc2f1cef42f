package profile

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Profile)
	registryMu sync.RWMutex
)

func add(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[p.Name]; exists {
		return fmt.Errorf("profile already registered: %s", p.Name)
	}
	registry[p.Name] = p
	return nil
}

// Register adds a profile to the registry.
// Panics if the profile is invalid or its name is already taken.
func Register(p Profile) {
	if err := add(p); err != nil {
		panic(err.Error())
	}
}

// Get returns a profile by name.
// Returns false if not found.
func Get(name string) (Profile, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[name]
	return p, ok
}

// All returns all registered profiles.
// Sorted by vendor then by name for consistent ordering.
func All() []Profile {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Profile, 0, len(registry))
	for _, p := range registry {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Vendor != result[j].Vendor {
			return result[i].Vendor < result[j].Vendor
		}
		return result[i].Name < result[j].Name
	})

	return result
}

// ByVendor returns all profiles for a specific vendor.
// Sorted by name for consistent ordering.
func ByVendor(vendor string) []Profile {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []Profile
	for _, p := range registry {
		if p.Vendor == vendor {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Vendors returns all unique vendor names.
// Sorted alphabetically.
func Vendors() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, p := range registry {
		seen[p.Vendor] = true
	}

	vendors := make([]string, 0, len(seen))
	for v := range seen {
		vendors = append(vendors, v)
	}

	sort.Strings(vendors)
	return vendors
}

// Count returns the number of registered profiles.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered profiles.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Profile)
}
