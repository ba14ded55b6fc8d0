package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

func settingsKey(barbershopID uint) string {
	return fmt.Sprintf("barbershop:%d:settings", barbershopID)
}

// RedisSettings guarda a ShopSettings no Redis. Falhas do Redis viram miss:
// o provider cai para o banco.
type RedisSettings struct {
	rc  *RedisCache
	ttl time.Duration
	log zerolog.Logger
}

func NewRedisSettings(rc *RedisCache, ttl time.Duration, log zerolog.Logger) *RedisSettings {
	return &RedisSettings{
		rc:  rc,
		ttl: ttl,
		log: log.With().Str("component", "settings_cache").Logger(),
	}
}

func (c *RedisSettings) GetSettings(ctx context.Context, barbershopID uint) (*models.ShopSettings, bool) {
	var s models.ShopSettings
	if err := c.rc.Get(ctx, settingsKey(barbershopID), &s); err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn().Err(err).Uint("barbershop_id", barbershopID).Msg("cache read failed")
		}
		return nil, false
	}
	return &s, true
}

func (c *RedisSettings) SetSettings(ctx context.Context, s *models.ShopSettings) {
	if err := c.rc.Set(ctx, settingsKey(s.BarbershopID), s, c.ttl); err != nil {
		c.log.Warn().Err(err).Uint("barbershop_id", s.BarbershopID).Msg("cache write failed")
	}
}

func (c *RedisSettings) InvalidateSettings(ctx context.Context, barbershopID uint) {
	if err := c.rc.Delete(ctx, settingsKey(barbershopID)); err != nil {
		c.log.Warn().Err(err).Uint("barbershop_id", barbershopID).Msg("cache invalidate failed")
	}
}

// LocalSettings é o cache em processo usado sem Redis.
type LocalSettings struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[uint]localItem
}

type localItem struct {
	s       models.ShopSettings
	expires time.Time
}

func NewLocalSettings(ttl time.Duration) *LocalSettings {
	return &LocalSettings{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[uint]localItem),
	}
}

func (c *LocalSettings) GetSettings(_ context.Context, barbershopID uint) (*models.ShopSettings, bool) {
	c.mu.RLock()
	it, ok := c.items[barbershopID]
	c.mu.RUnlock()

	if !ok || (c.ttl > 0 && c.now().After(it.expires)) {
		return nil, false
	}
	s := it.s
	return &s, true
}

func (c *LocalSettings) SetSettings(_ context.Context, s *models.ShopSettings) {
	c.mu.Lock()
	c.items[s.BarbershopID] = localItem{s: *s, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *LocalSettings) InvalidateSettings(_ context.Context, barbershopID uint) {
	c.mu.Lock()
	delete(c.items, barbershopID)
	c.mu.Unlock()
}

var (
	_ settings.Cache = (*RedisSettings)(nil)
	_ settings.Cache = (*LocalSettings)(nil)
)
