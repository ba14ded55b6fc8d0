package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/memory"
)

func TestDemo_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	first, err := Demo(ctx, store, store, store, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Demo(ctx, store, store, store, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID || first.Slug != DemoSlug {
		t.Fatalf("expected the same demo shop, got %d and %d", first.ID, second.ID)
	}

	services, _ := store.ListServices(ctx, first.ID, true)
	if len(services) != len(demoServices) {
		t.Errorf("expected %d services, got %d", len(demoServices), len(services))
	}

	barbers, _ := store.ListBarbers(ctx, first.ID, true)
	if len(barbers) != len(demoBarbers) {
		t.Errorf("expected %d barbers, got %d", len(demoBarbers), len(barbers))
	}

	st, err := store.GetSettings(ctx, first.ID)
	if err != nil || !st.QueueEnabled {
		t.Errorf("demo shop should have the queue enabled, got %+v (%v)", st, err)
	}
}
