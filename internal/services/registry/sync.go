package registry

import (
	"context"
	"fmt"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/util"
)

// SyncResult reports what a sync changed for one entity type.
type SyncResult struct {
	Type    keys.EntityType      `json:"type"`
	Added   []domain.GuildEntity `json:"added,omitempty"`
	Updated int                  `json:"updated"`
	Removed int64                `json:"removed"`
	Skipped int                  `json:"skipped"`
}

// Sync brings the stored entities of type t in line with remote.
//
// Entities already stored keep their keys; new ones get keys allocated
// in a single batch so that two new entities with the same name never
// collide. All rows are written in one transaction. With prune set,
// stored entities missing from remote are deleted and their keys freed.
func (s *Service) Sync(ctx context.Context, t keys.EntityType, remote []domain.GuildEntity, prune bool) (*SyncResult, error) {
	unlock, err := s.lock(t)
	if err != nil {
		return nil, err
	}
	defer unlock()

	known, err := s.store.KeysByID(ctx, t)
	if err != nil {
		return nil, err
	}
	alloc, err := keys.NewAllocator(ctx, t, s.store)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Type: t}
	batch := make([]domain.GuildEntity, 0, len(remote))
	seen := make(map[string]struct{}, len(remote))
	ids := make([]string, 0, len(remote))

	for _, e := range remote {
		if e.ID == "" {
			s.logger.Warn("skipping entity without ID", "type", t, "name", e.Name)
			result.Skipped++
			continue
		}
		if _, dup := seen[e.ID]; dup {
			s.logger.Warn("skipping duplicate entity", "type", t, "id", e.ID)
			result.Skipped++
			continue
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)

		e.Type = t
		if key, ok := known[e.ID]; ok && util.ValidateKey(string(t), key) == nil {
			e.Key = key
			result.Updated++
		} else {
			if ok {
				s.logger.Warn("stored key is malformed, reassigning", "type", t, "id", e.ID, "key", key)
			}
			e.Key = alloc.Allocate(e.Name)
			result.Added = append(result.Added, e)
			s.logger.Debug("allocated key", "type", t, "id", e.ID, "name", e.Name, "key", e.Key)
		}
		batch = append(batch, e)
	}

	if err := s.store.SaveAll(ctx, batch); err != nil {
		return nil, err
	}

	if prune {
		removed, err := s.store.DeleteExcept(ctx, t, ids)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
	}

	s.logger.Info("synced entities",
		"type", t,
		"added", len(result.Added),
		"updated", result.Updated,
		"removed", result.Removed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// SyncSnapshot runs Sync for each of types against snap, in order.
// Types the snapshot carries no list for are skipped, so a partial
// snapshot never prunes the types it left out.
func (s *Service) SyncSnapshot(ctx context.Context, snap *domain.Snapshot, types []keys.EntityType, prune bool) ([]SyncResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("registry: snapshot is required")
	}

	results := make([]SyncResult, 0, len(types))
	for _, t := range types {
		if !snap.Has(t) {
			s.logger.Warn("snapshot has no entities of this type, skipping", "type", t)
			continue
		}
		res, err := s.Sync(ctx, t, snap.Of(t), prune)
		if err != nil {
			return results, fmt.Errorf("registry: sync %s: %w", t, err)
		}
		results = append(results, *res)
	}
	return results, nil
}
