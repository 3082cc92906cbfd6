// Package keys derives the short, database-safe identifiers the guild
// bot uses to refer to emojis, channels, roles and webhooks.
//
// A key is the entity type, an underscore, and a canonical form of the
// entity's display name ("role_clan_war"). Keys are unique per entity
// type and never longer than MaxKeyLength. When the natural key is taken
// a numeric suffix is appended ("role_clan_war_1"), shortening the base
// rather than the suffix when space runs out.
package keys

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// Normalize returns a key for displayName that is not present among the
// keys provider reports for entityType.
//
// The provider is consulted exactly once and not at all when entityType
// is unsupported. Normalize does not persist the key; callers store it
// alongside the new entity.
func Normalize(ctx context.Context, displayName string, entityType EntityType, provider ExistingKeysProvider) (string, error) {
	a, err := NewAllocator(ctx, entityType, provider)
	if err != nil {
		return "", err
	}
	return a.Allocate(displayName), nil
}

// Allocator hands out unique keys for one entity type. It is seeded with
// the existing keys once and reserves every key it returns, so a batch
// of allocations never yields duplicates. An Allocator is call-scoped
// state: build a new one for each batch so the lookup is fresh.
type Allocator struct {
	entityType EntityType
	reserved   map[string]struct{}
}

// NewAllocator validates entityType, fetches its existing keys from
// provider, and returns an allocator seeded with them. A nil provider or
// a nil result is treated as an empty set.
func NewAllocator(ctx context.Context, entityType EntityType, provider ExistingKeysProvider) (*Allocator, error) {
	if !entityType.Valid() {
		return nil, &UnsupportedTypeError{Type: string(entityType)}
	}

	var existing []string
	if provider != nil {
		var err error
		existing, err = provider.ListExistingKeys(ctx, entityType)
		if err != nil {
			return nil, &LookupError{Type: entityType, Err: err}
		}
	}

	reserved := make(map[string]struct{}, len(existing))
	for _, k := range existing {
		reserved[k] = struct{}{}
	}
	return &Allocator{entityType: entityType, reserved: reserved}, nil
}

// Type returns the entity type the allocator serves.
func (a *Allocator) Type() EntityType { return a.entityType }

// Taken reports whether key is already stored or was handed out by this
// allocator.
func (a *Allocator) Taken(key string) bool {
	_, ok := a.reserved[key]
	return ok
}

// Allocate returns the first free key for displayName and reserves it.
func (a *Allocator) Allocate(displayName string) string {
	base := BaseKey(a.entityType, displayName)
	if len(base) <= MaxKeyLength && !a.Taken(base) {
		a.reserved[base] = struct{}{}
		return base
	}

	for n := 1; ; n++ {
		candidate := withSuffix(base, n)
		if !a.Taken(candidate) {
			a.reserved[candidate] = struct{}{}
			return candidate
		}
	}
}

// BaseKey is the unsuffixed key for displayName: the entity type joined
// to the canonical name, or the bare entity type when nothing of the
// name survives canonicalization.
func BaseKey(entityType EntityType, displayName string) string {
	name := Canonicalize(displayName)
	if name == "" {
		return string(entityType)
	}
	return string(entityType) + "_" + name
}

// Canonicalize lowercases s, drops everything except ASCII letters,
// digits, underscores and whitespace, and joins the surviving words with
// single underscores. Hyphens and other punctuation vanish without
// splitting words ("clan-war" becomes "clanwar").
func Canonicalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	separate := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if separate && b.Len() > 0 {
				b.WriteByte('_')
			}
			separate = false
			b.WriteRune(r)
		case r == '_' || isSeparator(r):
			separate = true
		}
	}
	return b.String()
}

// isSeparator reports whether r splits words. The set is the bot's
// whitespace class: Unicode White_Space plus the byte order mark, minus
// NEL.
func isSeparator(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// withSuffix appends "_n" to base. If the result would exceed
// MaxKeyLength the base is cut to truncatedBaseLength (less for suffixes
// of three or more digits) so that the suffix always survives intact.
func withSuffix(base string, n int) string {
	suffix := "_" + strconv.Itoa(n)
	if len(base)+len(suffix) <= MaxKeyLength {
		return base + suffix
	}

	limit := truncatedBaseLength
	if limit+len(suffix) > MaxKeyLength {
		limit = MaxKeyLength - len(suffix)
	}
	if limit > len(base) {
		limit = len(base)
	}
	return strings.TrimRight(base[:limit], "_") + suffix
}
