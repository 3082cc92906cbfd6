// Package snapshot reads and writes guild snapshots as YAML or JSON
// files, so a sync can run without reaching Discord.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"

	"gopkg.in/yaml.v3"
)

// Compile-time check that FileSource satisfies domain.Source.
var _ domain.Source = (*FileSource)(nil)

// Load reads a snapshot file. JSON is accepted as well as YAML.
func Load(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return Parse(data)
}

// document is the on-disk form of a snapshot. A list that is absent
// from the file stays nil, while "roles: []" decodes to an empty list.
type document struct {
	GuildID  string                `json:"guild_id" yaml:"guild_id"`
	Emojis   *[]domain.GuildEntity `json:"emojis,omitempty" yaml:"emojis,omitempty"`
	Channels *[]domain.GuildEntity `json:"channels,omitempty" yaml:"channels,omitempty"`
	Roles    *[]domain.GuildEntity `json:"roles,omitempty" yaml:"roles,omitempty"`
	Webhooks *[]domain.GuildEntity `json:"webhooks,omitempty" yaml:"webhooks,omitempty"`
}

func (d *document) list(t keys.EntityType) **[]domain.GuildEntity {
	switch t {
	case keys.Emoji:
		return &d.Emojis
	case keys.Channel:
		return &d.Channels
	case keys.Role:
		return &d.Roles
	case keys.Webhook:
		return &d.Webhooks
	}
	return nil
}

// Parse decodes a snapshot document. Unknown fields are rejected so
// that a typo in a list name does not silently sync nothing. Lists
// missing from the document are missing from the snapshot.
func Parse(data []byte) (*domain.Snapshot, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshot: parse failed: %w", err)
	}

	snap := &domain.Snapshot{GuildID: doc.GuildID}
	for _, t := range keys.AllTypes {
		ptr := *doc.list(t)
		if ptr == nil {
			continue
		}
		entities := *ptr
		if entities == nil {
			entities = []domain.GuildEntity{}
		}
		for i := range entities {
			if entities[i].Type != "" && entities[i].Type != t {
				return nil, fmt.Errorf("snapshot: %s list contains %s entity %q", t, entities[i].Type, entities[i].ID)
			}
			entities[i].Type = t
		}
		snap.Set(t, entities)
	}
	return snap, nil
}

// Save writes snap to path, as JSON when path ends in .json and as YAML
// otherwise. Only the lists the snapshot carries are written.
func Save(path string, snap *domain.Snapshot) error {
	doc := document{GuildID: snap.GuildID}
	for _, t := range keys.AllTypes {
		if snap.Has(t) {
			entities := snap.Of(t)
			*doc.list(t) = &entities
		}
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("snapshot: encode failed: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// FileSource serves snapshots from a file.
type FileSource struct {
	path string
}

// NewFileSource returns a source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot loads the file and keeps only the requested types. A
// requested type the file has no list for is an error, as is a guildID
// that disagrees with the file's guild_id (either may be empty). With no
// types, every list in the file is returned.
func (f *FileSource) Snapshot(ctx context.Context, guildID string, types []keys.EntityType) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := Load(f.path)
	if err != nil {
		return nil, err
	}
	if guildID != "" && snap.GuildID != "" && guildID != snap.GuildID {
		return nil, fmt.Errorf("snapshot: file is for guild %s, not %s", snap.GuildID, guildID)
	}
	if guildID != "" && snap.GuildID == "" {
		snap.GuildID = guildID
	}
	if len(types) == 0 {
		return snap, nil
	}

	filtered := &domain.Snapshot{GuildID: snap.GuildID}
	for _, t := range types {
		if !t.Valid() {
			return nil, &keys.UnsupportedTypeError{Type: string(t)}
		}
		if !snap.Has(t) {
			return nil, fmt.Errorf("snapshot: %s has no %s list", f.path, t)
		}
		filtered.Set(t, snap.Of(t))
	}
	return filtered, nil
}
