package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/services/auth"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// --- Test helpers ---

// newTestClient creates a Client pointed at the given test server.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c := NewClient("test-token")
	c.baseURL = serverURL
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// guildServer serves a small fixed guild under /guilds/g1.
func guildServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /guilds/g1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"id": "g1", "name": "Banes Lab"})
	})
	mux.HandleFunc("GET /guilds/g1/emojis", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{
			map[string]any{"id": "11", "name": "fire", "animated": false},
			map[string]any{"id": "12", "name": "party", "animated": true},
		})
	})
	mux.HandleFunc("GET /guilds/g1/roles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{
			map[string]any{"id": "g1", "name": "@everyone", "color": 0, "permissions": "1024"},
			map[string]any{"id": "21", "name": "Clan War", "color": 16711680, "permissions": "8"},
		})
	})
	mux.HandleFunc("GET /guilds/g1/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{
			map[string]any{"id": "30", "name": "Events", "type": 4, "parent_id": nil},
			map[string]any{"id": "31", "name": "announcements", "type": 0, "parent_id": "30"},
			map[string]any{"id": "32", "name": "lobby", "type": 2, "parent_id": nil},
		})
	})
	mux.HandleFunc("GET /guilds/g1/webhooks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{
			map[string]any{"id": "41", "name": "Alerts", "token": "tok", "channel_id": "31"},
			map[string]any{"id": "42", "name": nil, "url": "https://discord.com/api/webhooks/42/abc", "channel_id": nil},
		})
	})

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if got := r.Header.Get("Authorization"); got != "Bot test-token" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 0, "message": "401: Unauthorized"})
			return
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "DiscordBot") {
			t.Errorf("unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		mux.ServeHTTP(w, r)
	}))
}

// --- Tests ---

func TestEmojis(t *testing.T) {
	srv := guildServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	got, err := c.Emojis(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Emojis error: %v", err)
	}
	want := []domain.GuildEntity{
		{Type: keys.Emoji, ID: "11", Name: "fire", Format: "<:fire:11>"},
		{Type: keys.Emoji, ID: "12", Name: "party", Format: "<a:party:12>", Animated: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emojis mismatch (-want +got):\n%s", diff)
	}
}

func TestRoles(t *testing.T) {
	srv := guildServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	got, err := c.Roles(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Roles error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(got))
	}
	want := domain.GuildEntity{Type: keys.Role, ID: "21", Name: "Clan War", Color: 0xff0000, Permissions: "8"}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Errorf("role mismatch (-want +got):\n%s", diff)
	}
}

func TestChannels_ResolvesCategories(t *testing.T) {
	srv := guildServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	got, err := c.Channels(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Channels error: %v", err)
	}

	categories := map[string]string{}
	for _, ch := range got {
		categories[ch.Name] = ch.Category
	}
	want := map[string]string{
		"Events":        "uncategorized",
		"announcements": "Events",
		"lobby":         "uncategorized",
	}
	if diff := cmp.Diff(want, categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestWebhooks_FallbackNameAndURL(t *testing.T) {
	srv := guildServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	got, err := c.Webhooks(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Webhooks error: %v", err)
	}
	want := []domain.GuildEntity{
		{Type: keys.Webhook, ID: "41", Name: "Alerts", URL: "https://discord.com/api/webhooks/41/tok", ChannelID: "31"},
		{Type: keys.Webhook, ID: "42", Name: "Banes Lab", URL: "https://discord.com/api/webhooks/42/abc"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Webhooks mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_FetchesRequestedTypes(t *testing.T) {
	var hits atomic.Int32
	srv := guildServer(t, &hits)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	snap, err := c.Snapshot(context.Background(), "g1", []keys.EntityType{keys.Emoji, keys.Role})
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if snap.GuildID != "g1" {
		t.Errorf("GuildID = %q", snap.GuildID)
	}
	if len(snap.Emojis) != 2 || len(snap.Roles) != 2 {
		t.Errorf("emojis=%d roles=%d, want 2/2", len(snap.Emojis), len(snap.Roles))
	}
	if snap.Channels != nil || snap.Webhooks != nil {
		t.Error("expected unrequested types to stay empty")
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}

func TestSnapshot_AllTypesByDefault(t *testing.T) {
	srv := guildServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	snap, err := c.Snapshot(context.Background(), "g1", nil)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	for _, typ := range keys.AllTypes {
		if len(snap.Of(typ)) == 0 {
			t.Errorf("expected %s entities in snapshot", typ)
		}
	}
}

func TestSnapshot_RejectsUnsupportedType(t *testing.T) {
	var hits atomic.Int32
	srv := guildServer(t, &hits)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.Snapshot(context.Background(), "g1", []keys.EntityType{keys.Emoji, "sticker"})
	if !errors.Is(err, keys.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestSnapshot_RequiresGuildID(t *testing.T) {
	c := NewClient("test-token")
	if _, err := c.Snapshot(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty guild ID")
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, map[string]any{"code": 0, "message": "401: Unauthorized"}, domain.ErrUnauthorized},
		{"missing access", http.StatusForbidden, map[string]any{"code": 50001, "message": "Missing Access"}, domain.ErrUnauthorized},
		{"unknown guild", http.StatusNotFound, map[string]any{"code": 10004, "message": "Unknown Guild"}, domain.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, map[string]any{"message": "You are being rate limited.", "retry_after": 1.5}, domain.ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, tt.body)
			}))
			defer srv.Close()
			c := newTestClient(t, srv.URL)

			_, err := c.Roles(context.Background(), "g1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestErrorMapping_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.Emojis(context.Background(), "g1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 502") || !strings.Contains(err.Error(), "upstream down") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFromStore(t *testing.T) {
	store := auth.NewMockStore()

	if _, err := FromStore(store); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}

	_ = store.SetToken("discord", "abc")
	c, err := FromStore(store)
	if err != nil {
		t.Fatalf("FromStore error: %v", err)
	}
	if c.token != "abc" {
		t.Errorf("token = %q", c.token)
	}
}

func TestFormatEmoji(t *testing.T) {
	got := []string{FormatEmoji("gz", "1", false), FormatEmoji("gz", "1", true)}
	want := []string{"<:gz:1>", "<a:gz:1>"}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("FormatEmoji mismatch (-want +got):\n%s", diff)
	}
}
