package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownSource is returned for a source that was never registered.
	ErrUnknownSource = errors.New("unknown source")

	// ErrSourceNotImplemented is returned for a source that is announced but
	// has no importer yet.
	ErrSourceNotImplemented = errors.New("source not yet implemented")
)

var (
	registry   = make(map[string]Importer)
	planned    = make(map[string]bool)
	registryMu sync.RWMutex
)

// RegisterImporter adds an importer to the registry under its Source key.
// Panics if an importer with the same key is already registered.
func RegisterImporter(imp Importer) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := normalizeSource(imp.Source())
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("importer already registered: %s", key))
	}

	delete(planned, key)
	registry[key] = imp
}

// RegisterPlanned announces a source whose importer is not built yet.
// Lookups for it fail with ErrSourceNotImplemented instead of ErrUnknownSource.
func RegisterPlanned(source string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := normalizeSource(source)
	if _, exists := registry[key]; exists {
		return
	}
	planned[key] = true
}

// LookupImporter returns the importer registered for source.
func LookupImporter(source string) (Importer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	key := normalizeSource(source)
	if imp, ok := registry[key]; ok {
		return imp, nil
	}
	if planned[key] {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotImplemented, key)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
}

// SourceInfo describes one source for listing.
type SourceInfo struct {
	Key       string `json:"key"`
	Available bool   `json:"available"`
}

// Sources returns every registered and planned source.
// Sorted by key for consistent ordering.
func Sources() []SourceInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]SourceInfo, 0, len(registry)+len(planned))
	for key := range registry {
		result = append(result, SourceInfo{Key: key, Available: true})
	}
	for key := range planned {
		result = append(result, SourceInfo{Key: key})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ClearImporters removes all registered and planned sources.
// Primarily useful for testing.
func ClearImporters() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Importer)
	planned = make(map[string]bool)
}

func normalizeSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
