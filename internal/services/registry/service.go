// Package registry assigns keys to guild entities and keeps the local
// store in step with the guild.
//
// CLI commands construct a Service over a guildstore.Repository and call
// its methods rather than touching the normalizer or the store directly.
// Allocation for one entity type is serialized within the process; the
// store's unique constraint settles races with other processes, and a
// lost race is retried with a fresh lookup.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/guildstore"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/logging"
	"baneslab/guildkeys/internal/retry"
	"baneslab/guildkeys/internal/util"

	charmlog "github.com/charmbracelet/log"
)

// Service is the key registry business logic layer.
type Service struct {
	store  guildstore.Repository
	logger *charmlog.Logger
	retry  retry.Config

	locks map[keys.EntityType]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for allocation and sync events.
func WithLogger(logger *charmlog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetry overrides the retry policy applied when a key is lost to a
// concurrent writer.
func WithRetry(cfg retry.Config) Option {
	return func(s *Service) {
		s.retry = cfg
	}
}

// New returns a Service backed by store.
func New(store guildstore.Repository, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logging.Discard(),
		retry:  retry.DefaultConfig(),
		locks: make(map[keys.EntityType]*sync.Mutex, len(keys.AllTypes)),
	}
	for _, t := range keys.AllTypes {
		s.locks[t] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases store resources.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// lock acquires the allocation lock for t. It returns an
// UnsupportedTypeError for unknown types.
func (s *Service) lock(t keys.EntityType) (func(), error) {
	mu, ok := s.locks[t]
	if !ok {
		return nil, &keys.UnsupportedTypeError{Type: string(t)}
	}
	mu.Lock()
	return mu.Unlock, nil
}

// NewKey returns the key displayName would receive if registered now.
// Nothing is stored.
func (s *Service) NewKey(ctx context.Context, t keys.EntityType, displayName string) (string, error) {
	unlock, err := s.lock(t)
	if err != nil {
		return "", err
	}
	defer unlock()

	return keys.Normalize(ctx, displayName, t, s.store)
}

// Register stores entity under a unique key. An entity already stored
// with the same ID keeps its key; otherwise a key is allocated from
// entity.Name. The stored entity is returned.
func (s *Service) Register(ctx context.Context, entity domain.GuildEntity) (*domain.GuildEntity, error) {
	unlock, err := s.lock(entity.Type)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if entity.ID == "" {
		return nil, fmt.Errorf("registry: %s ID is required", entity.Type)
	}

	existing, err := s.store.Get(ctx, entity.Type, entity.ID)
	switch {
	case err == nil && util.ValidateKey(string(entity.Type), existing.Key) == nil:
		entity.Key = existing.Key
		if err := s.store.Save(ctx, &entity); err != nil {
			return nil, err
		}
		s.logger.Debug("updated entity", "type", entity.Type, "id", entity.ID, "key", entity.Key)
		return &entity, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	cfg := s.retry
	cfg.OnRetry = func(attempt int, err error) {
		s.logger.Warn("key taken by concurrent writer, reallocating",
			"type", entity.Type, "key", entity.Key, "attempt", attempt)
	}
	err = retry.Do(ctx, cfg, retry.On(domain.ErrConflict), func() error {
		key, err := keys.Normalize(ctx, entity.Name, entity.Type, s.store)
		if err != nil {
			return err
		}
		entity.Key = key
		return s.store.Save(ctx, &entity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("allocated key", "type", entity.Type, "id", entity.ID, "name", entity.Name, "key", entity.Key)
	return &entity, nil
}

// Lookup finds a stored entity of type t by key or by ID. Arguments that
// look like a key of type t are tried as keys first.
func (s *Service) Lookup(ctx context.Context, t keys.EntityType, keyOrID string) (*domain.GuildEntity, error) {
	if !t.Valid() {
		return nil, &keys.UnsupportedTypeError{Type: string(t)}
	}
	if keyOrID == string(t) || strings.HasPrefix(keyOrID, string(t)+"_") {
		e, err := s.store.GetByKey(ctx, t, keyOrID)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return e, err
		}
	}
	return s.store.Get(ctx, t, keyOrID)
}

// List returns all stored entities of type t ordered by key.
func (s *Service) List(ctx context.Context, t keys.EntityType) ([]domain.GuildEntity, error) {
	return s.store.List(ctx, t)
}

// Delete removes the entity of type t identified by key or ID and
// returns what was removed. Its key becomes available again.
func (s *Service) Delete(ctx context.Context, t keys.EntityType, keyOrID string) (*domain.GuildEntity, error) {
	unlock, err := s.lock(t)
	if err != nil {
		return nil, err
	}
	defer unlock()

	e, err := s.Lookup(ctx, t, keyOrID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, t, e.ID); err != nil {
		return nil, err
	}
	s.logger.Info("deleted entity", "type", t, "id", e.ID, "key", e.Key)
	return e, nil
}
