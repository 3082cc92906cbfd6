package guildstore

import (
	"database/sql"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"
)

// table maps one entity type onto its SQLite table. The id, key and name
// columns are common to every table; extra holds the type-specific ones.
type table struct {
	name    string
	idCol   string
	keyCol  string
	nameCol string
	extra   []string

	// values returns the extra column values for e, in extra's order.
	values func(e *domain.GuildEntity) []any
	// scan returns destinations for the extra columns and a func that
	// copies them into e once the row has been scanned.
	scan func(e *domain.GuildEntity) ([]any, func())
}

var tables = map[keys.EntityType]table{
	keys.Emoji: {
		name:    "guild_emojis",
		idCol:   "emoji_id",
		keyCol:  "emoji_key",
		nameCol: "emoji_name",
		extra:   []string{"emoji_format", "animated"},
		values: func(e *domain.GuildEntity) []any {
			return []any{e.Format, boolToInt(e.Animated)}
		},
		scan: func(e *domain.GuildEntity) ([]any, func()) {
			var animated int
			return []any{&e.Format, &animated}, func() { e.Animated = animated != 0 }
		},
	},
	keys.Channel: {
		name:    "guild_channels",
		idCol:   "channel_id",
		keyCol:  "channel_key",
		nameCol: "name",
		extra:   []string{"type", "category", "permissions"},
		values: func(e *domain.GuildEntity) []any {
			category := e.Category
			if category == "" {
				category = "general"
			}
			return []any{e.ChannelType, category, permissionsOrZero(e.Permissions)}
		},
		scan: func(e *domain.GuildEntity) ([]any, func()) {
			return []any{&e.ChannelType, &e.Category, &e.Permissions}, nil
		},
	},
	keys.Role: {
		name:    "guild_roles",
		idCol:   "role_id",
		keyCol:  "role_key",
		nameCol: "role_name",
		extra:   []string{"color", "permissions"},
		values: func(e *domain.GuildEntity) []any {
			return []any{e.Color, permissionsOrZero(e.Permissions)}
		},
		scan: func(e *domain.GuildEntity) ([]any, func()) {
			return []any{&e.Color, &e.Permissions}, nil
		},
	},
	keys.Webhook: {
		name:    "guild_webhooks",
		idCol:   "webhook_id",
		keyCol:  "webhook_key",
		nameCol: "webhook_name",
		extra:   []string{"webhook_url", "channel_id"},
		values: func(e *domain.GuildEntity) []any {
			var channelID sql.NullString
			if e.ChannelID != "" {
				channelID = sql.NullString{String: e.ChannelID, Valid: true}
			}
			return []any{e.URL, channelID}
		},
		scan: func(e *domain.GuildEntity) ([]any, func()) {
			var channelID sql.NullString
			return []any{&e.URL, &channelID}, func() { e.ChannelID = channelID.String }
		},
	},
}

const schema = `
    CREATE TABLE IF NOT EXISTS guild_emojis (
        emoji_id     TEXT    PRIMARY KEY,
        emoji_key    TEXT    NOT NULL UNIQUE,
        emoji_name   TEXT    NOT NULL,
        emoji_format TEXT    NOT NULL DEFAULT '',
        animated     INTEGER NOT NULL DEFAULT 0,
        updated_at   TEXT    NOT NULL
    );
    CREATE TABLE IF NOT EXISTS guild_channels (
        channel_id  TEXT    PRIMARY KEY,
        channel_key TEXT    NOT NULL UNIQUE,
        name        TEXT    NOT NULL,
        type        INTEGER NOT NULL DEFAULT 0,
        category    TEXT    NOT NULL DEFAULT 'general',
        permissions TEXT    NOT NULL DEFAULT '0',
        updated_at  TEXT    NOT NULL
    );
    CREATE TABLE IF NOT EXISTS guild_roles (
        role_id     TEXT    PRIMARY KEY,
        role_key    TEXT    NOT NULL UNIQUE,
        role_name   TEXT    NOT NULL,
        color       INTEGER NOT NULL DEFAULT 0,
        permissions TEXT    NOT NULL DEFAULT '0',
        updated_at  TEXT    NOT NULL
    );
    CREATE TABLE IF NOT EXISTS guild_webhooks (
        webhook_id   TEXT PRIMARY KEY,
        webhook_key  TEXT NOT NULL UNIQUE,
        webhook_name TEXT NOT NULL DEFAULT 'Unnamed Webhook',
        webhook_url  TEXT NOT NULL DEFAULT '',
        channel_id   TEXT DEFAULT NULL,
        updated_at   TEXT NOT NULL
    );
`

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func permissionsOrZero(p string) string {
	if p == "" {
		return "0"
	}
	return p
}
