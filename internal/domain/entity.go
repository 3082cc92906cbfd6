package domain

import (
	"context"
	"time"

	"baneslab/guildkeys/internal/keys"
)

// GuildEntity is a Discord object tracked in the local store together
// with the short key derived from its display name.
//
// Only the fields relevant to Type are populated; the rest stay zero.
type GuildEntity struct {
	Type keys.EntityType `json:"type" yaml:"type"`
	ID   string          `json:"id" yaml:"id"`
	Key  string          `json:"key,omitempty" yaml:"key,omitempty"`
	Name string          `json:"name" yaml:"name"`

	// Emoji
	Format   string `json:"format,omitempty" yaml:"format,omitempty"` // e.g. "<:fire:123>"
	Animated bool   `json:"animated,omitempty" yaml:"animated,omitempty"`

	// Channel
	ChannelType int    `json:"channel_type,omitempty" yaml:"channel_type,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`

	// Role
	Color       int    `json:"color,omitempty" yaml:"color,omitempty"`
	Permissions string `json:"permissions,omitempty" yaml:"permissions,omitempty"`

	// Webhook
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	ChannelID string `json:"channel_id,omitempty" yaml:"channel_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// Snapshot is the set of entities fetched from a guild at one time.
//
// A nil list means that type was not fetched; an empty list means the
// guild has none. Pruning relies on the difference.
type Snapshot struct {
	GuildID  string        `json:"guild_id" yaml:"guild_id"`
	Emojis   []GuildEntity `json:"emojis,omitempty" yaml:"emojis,omitempty"`
	Channels []GuildEntity `json:"channels,omitempty" yaml:"channels,omitempty"`
	Roles    []GuildEntity `json:"roles,omitempty" yaml:"roles,omitempty"`
	Webhooks []GuildEntity `json:"webhooks,omitempty" yaml:"webhooks,omitempty"`
}

// Of returns the entities of type t in the snapshot.
func (s *Snapshot) Of(t keys.EntityType) []GuildEntity {
	switch t {
	case keys.Emoji:
		return s.Emojis
	case keys.Channel:
		return s.Channels
	case keys.Role:
		return s.Roles
	case keys.Webhook:
		return s.Webhooks
	}
	return nil
}

// Has reports whether the snapshot carries a list for type t, even an
// empty one.
func (s *Snapshot) Has(t keys.EntityType) bool {
	return s.Of(t) != nil
}

// Set replaces the entities of type t in the snapshot.
func (s *Snapshot) Set(t keys.EntityType, entities []GuildEntity) {
	switch t {
	case keys.Emoji:
		s.Emojis = entities
	case keys.Channel:
		s.Channels = entities
	case keys.Role:
		s.Roles = entities
	case keys.Webhook:
		s.Webhooks = entities
	}
}

// Source supplies guild snapshots, either live from Discord or from a
// file exported earlier.
type Source interface {
	Snapshot(ctx context.Context, guildID string, types []keys.EntityType) (*Snapshot, error)
}
