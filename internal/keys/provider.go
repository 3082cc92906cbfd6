package keys

import "context"

// ExistingKeysProvider reports the keys already stored for an entity
// type. Implementations must read fresh on every call; the normalizer
// never caches the result.
type ExistingKeysProvider interface {
	ListExistingKeys(ctx context.Context, entityType EntityType) ([]string, error)
}

// ProviderFunc adapts a plain function to ExistingKeysProvider.
type ProviderFunc func(ctx context.Context, entityType EntityType) ([]string, error)

// ListExistingKeys calls f.
func (f ProviderFunc) ListExistingKeys(ctx context.Context, entityType EntityType) ([]string, error) {
	return f(ctx, entityType)
}

// StaticProvider serves fixed key sets per entity type. Useful for
// dry runs and tests.
type StaticProvider map[EntityType][]string

// ListExistingKeys returns a copy of the keys registered for entityType.
func (p StaticProvider) ListExistingKeys(_ context.Context, entityType EntityType) ([]string, error) {
	existing := p[entityType]
	out := make([]string, len(existing))
	copy(out, existing)
	return out, nil
}
