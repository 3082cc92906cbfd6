package discord

import (
	"context"
	"fmt"
	"net/url"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"

	"golang.org/x/sync/errgroup"
)

// channelTypeCategory is Discord's GUILD_CATEGORY channel type.
const channelTypeCategory = 4

// --- API response types ---

type dcGuild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type dcEmoji struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Animated bool   `json:"animated"`
}

type dcRole struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Permissions string `json:"permissions"`
}

type dcChannel struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     int     `json:"type"`
	ParentID *string `json:"parent_id"`
}

type dcWebhook struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	Token     string  `json:"token,omitempty"`
	ChannelID *string `json:"channel_id"`
	URL       string  `json:"url,omitempty"`
}

func guildPath(guildID, resource string) string {
	p := "/guilds/" + url.PathEscape(guildID)
	if resource != "" {
		p += "/" + resource
	}
	return p
}

// GuildName returns the display name of the guild.
func (c *Client) GuildName(ctx context.Context, guildID string) (string, error) {
	var g dcGuild
	if err := c.getJSON(ctx, guildPath(guildID, ""), &g); err != nil {
		return "", fmt.Errorf("failed to get guild %q: %w", guildID, err)
	}
	return g.Name, nil
}

// Emojis lists the guild's custom emojis. Format holds the message
// markup that renders the emoji.
func (c *Client) Emojis(ctx context.Context, guildID string) ([]domain.GuildEntity, error) {
	var raw []dcEmoji
	if err := c.getJSON(ctx, guildPath(guildID, "emojis"), &raw); err != nil {
		return nil, fmt.Errorf("failed to list emojis: %w", err)
	}

	out := make([]domain.GuildEntity, 0, len(raw))
	for _, e := range raw {
		out = append(out, domain.GuildEntity{
			Type:     keys.Emoji,
			ID:       e.ID,
			Name:     e.Name,
			Format:   FormatEmoji(e.Name, e.ID, e.Animated),
			Animated: e.Animated,
		})
	}
	return out, nil
}

// FormatEmoji returns the message markup for a custom emoji.
func FormatEmoji(name, id string, animated bool) string {
	if animated {
		return fmt.Sprintf("<a:%s:%s>", name, id)
	}
	return fmt.Sprintf("<:%s:%s>", name, id)
}

// Roles lists the guild's roles, @everyone included.
func (c *Client) Roles(ctx context.Context, guildID string) ([]domain.GuildEntity, error) {
	var raw []dcRole
	if err := c.getJSON(ctx, guildPath(guildID, "roles"), &raw); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	out := make([]domain.GuildEntity, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.GuildEntity{
			Type:        keys.Role,
			ID:          r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Permissions: r.Permissions,
		})
	}
	return out, nil
}

// Channels lists the guild's channels. Category holds the name of the
// parent category, or "uncategorized".
func (c *Client) Channels(ctx context.Context, guildID string) ([]domain.GuildEntity, error) {
	var raw []dcChannel
	if err := c.getJSON(ctx, guildPath(guildID, "channels"), &raw); err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	categories := make(map[string]string)
	for _, ch := range raw {
		if ch.Type == channelTypeCategory {
			categories[ch.ID] = ch.Name
		}
	}

	out := make([]domain.GuildEntity, 0, len(raw))
	for _, ch := range raw {
		category := "uncategorized"
		if ch.ParentID != nil {
			if name, ok := categories[*ch.ParentID]; ok {
				category = name
			}
		}
		out = append(out, domain.GuildEntity{
			Type:        keys.Channel,
			ID:          ch.ID,
			Name:        ch.Name,
			ChannelType: ch.Type,
			Category:    category,
		})
	}
	return out, nil
}

// Webhooks lists the guild's webhooks. Unnamed webhooks take the guild's
// name.
func (c *Client) Webhooks(ctx context.Context, guildID string) ([]domain.GuildEntity, error) {
	var raw []dcWebhook
	if err := c.getJSON(ctx, guildPath(guildID, "webhooks"), &raw); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}

	var guildName string
	out := make([]domain.GuildEntity, 0, len(raw))
	for _, w := range raw {
		name := ""
		if w.Name != nil {
			name = *w.Name
		}
		if name == "" {
			if guildName == "" {
				n, err := c.GuildName(ctx, guildID)
				if err != nil {
					return nil, err
				}
				guildName = n
			}
			name = guildName
		}

		hookURL := w.URL
		if hookURL == "" && w.Token != "" {
			hookURL = fmt.Sprintf("https://discord.com/api/webhooks/%s/%s", w.ID, w.Token)
		}

		var channelID string
		if w.ChannelID != nil {
			channelID = *w.ChannelID
		}

		out = append(out, domain.GuildEntity{
			Type:      keys.Webhook,
			ID:        w.ID,
			Name:      name,
			URL:       hookURL,
			ChannelID: channelID,
		})
	}
	return out, nil
}

// Snapshot fetches the requested entity types concurrently. An empty
// types list fetches all of them.
func (c *Client) Snapshot(ctx context.Context, guildID string, types []keys.EntityType) (*domain.Snapshot, error) {
	if guildID == "" {
		return nil, fmt.Errorf("discord: guild ID is required")
	}
	if len(types) == 0 {
		types = keys.AllTypes
	}

	fetchers := map[keys.EntityType]func(context.Context, string) ([]domain.GuildEntity, error){
		keys.Emoji:   c.Emojis,
		keys.Channel: c.Channels,
		keys.Role:    c.Roles,
		keys.Webhook: c.Webhooks,
	}

	for _, t := range types {
		if _, ok := fetchers[t]; !ok {
			return nil, &keys.UnsupportedTypeError{Type: string(t)}
		}
	}

	results := make([][]domain.GuildEntity, len(types))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		fetch := fetchers[t]
		g.Go(func() error {
			entities, err := fetch(gctx, guildID)
			if err != nil {
				return err
			}
			results[i] = entities
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{GuildID: guildID}
	for i, t := range types {
		if results[i] == nil {
			results[i] = []domain.GuildEntity{}
		}
		snap.Set(t, results[i])
	}
	return snap, nil
}
