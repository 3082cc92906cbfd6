package auditlog

import "context"

// Metadata describes the guild entity a command acted on.
type Metadata struct {
	GuildID    string
	EntityType string
	EntityID   string
	EntityKey  string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Empty fields keep
// any value already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		GuildID:    pick(meta.GuildID, existing.GuildID),
		EntityType: pick(meta.EntityType, existing.EntityType),
		EntityID:   pick(meta.EntityID, existing.EntityID),
		EntityKey:  pick(meta.EntityKey, existing.EntityKey),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
