package settings

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
)

func TestProvider_DefaultsWhenNeverSaved(t *testing.T) {
	p := NewProvider(memory.New(), cache.NewLocalSettings(time.Minute), tenant.NewLanes(time.Second), nil)

	s, err := p.Get(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if s.BarbershopID != 3 || s.WeekdayHours != domain.DefaultWeekdayHours || s.QueueEnabled {
		t.Errorf("unexpected defaults %+v", s)
	}
}

func TestProvider_UpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := NewProvider(store, cache.NewLocalSettings(time.Hour), tenant.NewLanes(time.Second), nil)

	if _, err := p.Get(ctx, 1); err != nil {
		t.Fatal(err)
	}

	enabled := true
	size := 5
	updated, err := p.Update(ctx, 1, nil, domain.Patch{QueueEnabled: &enabled, MaxQueueSize: &size})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.QueueEnabled || updated.MaxQueueSize != 5 {
		t.Errorf("unexpected update result %+v", updated)
	}

	got, err := p.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.QueueEnabled || got.MaxQueueSize != 5 {
		t.Errorf("cached read should see the update, got %+v", got)
	}

	stored, err := store.GetSettings(ctx, 1)
	if err != nil || stored.MaxQueueSize != 5 {
		t.Errorf("update should be persisted, got %+v (%v)", stored, err)
	}
}

func TestProvider_RejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := NewProvider(store, cache.NewLocalSettings(time.Minute), tenant.NewLanes(time.Second), nil)

	bad := "20:00-09:00"
	_, err := p.Update(ctx, 1, nil, domain.Patch{WeekdayHours: &bad})
	if !httperr.IsBusiness(err, "invalid_hours") {
		t.Fatalf("expected invalid_hours, got %v", err)
	}

	if _, err := store.GetSettings(ctx, 1); !httperr.Is(err, httperr.KindNotFound) {
		t.Errorf("rejected patch must not be saved, got %v", err)
	}
}
