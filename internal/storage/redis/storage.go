package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := eventKey(event.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, eventsIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	var event model.Event
	if err := s.getJSON(ctx, eventKey(id), &event, model.ErrEventNotFound); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Storage) ListEvents(ctx context.Context) ([]*model.Event, error) {
	events, err := loadIndexed[model.Event](ctx, s.client, eventsIndexKey())
	if err != nil {
		return nil, err
	}
	storage.SortEvents(events)
	return events, nil
}

// Section operations

func (s *Storage) SaveSection(ctx context.Context, section *model.Section) error {
	data, err := json.Marshal(section)
	if err != nil {
		return err
	}

	key := sectionKey(section.EventID, section.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, sectionsForEventIndexKey(section.EventID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSectionsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Section, error) {
	sections, err := loadIndexed[model.Section](ctx, s.client, sectionsForEventIndexKey(eventID))
	if err != nil {
		return nil, err
	}
	storage.SortSections(sections)
	return sections, nil
}

func (s *Storage) DeleteSectionsForEvent(ctx context.Context, eventID model.EventID) error {
	indexKey := sectionsForEventIndexKey(eventID)

	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Wizard session operations

func (s *Storage) SaveWizard(ctx context.Context, wizard *model.Wizard) error {
	data, err := json.Marshal(wizard)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, wizardKey(wizard.ID), data, s.cfg.WizardTTL).Err()
}

func (s *Storage) GetWizard(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	var wizard model.Wizard
	if err := s.getJSON(ctx, wizardKey(id), &wizard, model.ErrWizardNotFound); err != nil {
		return nil, err
	}
	return &wizard, nil
}

func (s *Storage) DeleteWizard(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, wizardKey(id)).Err()
}

// DeleteIdleWizards scans every session key
func (s *Storage) DeleteIdleWizards(ctx context.Context, idleSince time.Time) (int, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, wizardKeyPattern(), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	for _, key := range keys {
		var wizard model.Wizard
		err := s.getJSON(ctx, key, &wizard, model.ErrWizardNotFound)
		if errors.Is(err, model.ErrWizardNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		if !wizard.UpdatedAt.Before(idleSince) {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Registration operations

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.Registration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	key := registrationKey(reg.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0) // No TTL
	pipe.ZAdd(ctx, registrationsForEventIndexKey(reg.EventID), redis.Z{
		Score:  float64(reg.RegisteredAt.UnixMilli()),
		Member: key,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error) {
	var reg model.Registration
	if err := s.getJSON(ctx, registrationKey(id), &reg, model.ErrRegistrationNotFound); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *Storage) GetRegistrationsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Registration, error) {
	keys, err := s.client.ZRevRange(ctx, registrationsForEventIndexKey(eventID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	regs, err := mget[model.Registration](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	// Ties within the same millisecond are broken by ID
	storage.SortRegistrationsNewestFirst(regs)
	return regs, nil
}

func (s *Storage) getJSON(ctx context.Context, key string, v any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// loadIndexed loads every value whose key is a member of the given SET index
func loadIndexed[T any](ctx context.Context, client *redis.Client, indexKey string) ([]*T, error) {
	keys, err := client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	return mget[T](ctx, client, keys)
}

// mget loads JSON values for the given keys, skipping keys that no longer exist
func mget[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}
