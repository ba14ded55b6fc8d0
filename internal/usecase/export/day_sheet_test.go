package export

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

func TestExportDaySheet(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	objects := storage.NewMemoryStore()

	shop := &models.Barbershop{Name: "Centro", Slug: "centro", Timezone: "UTC"}
	if err := repo.CreateBarbershop(ctx, shop); err != nil {
		t.Fatal(err)
	}

	for i, hm := range []string{"10:00", "09:00"} {
		ap := &models.Appointment{
			BarbershopID: shop.ID,
			BarberID:     1,
			Protocol:     "261019-0800-000" + string(rune('A'+i)),
			ClientName:   "Cliente",
			ClientPhone:  "11999990000",
			Date:         "2026-10-19",
			Time:         hm,
			DurationMin:  30,
			Status:       "pending",
		}
		if err := repo.CreateAppointment(ctx, ap); err != nil {
			t.Fatal(err)
		}
	}

	other := &models.Appointment{BarbershopID: shop.ID, Protocol: "261020-0800-ZZZZ", Date: "2026-10-20", Time: "09:00"}
	if err := repo.CreateAppointment(ctx, other); err != nil {
		t.Fatal(err)
	}

	uc := NewExportDaySheet(repo, objects, nil)
	uc.Clock = func() time.Time { return time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC) }

	res, err := uc.Execute(ctx, shop.ID, nil, "2026-10-19")
	if err != nil {
		t.Fatal(err)
	}

	if res.Key != "exports/centro/2026-10-19/agenda-183000.json" {
		t.Errorf("unexpected key %s", res.Key)
	}
	if !strings.HasPrefix(res.Location, "memory://") || res.Appointments != 2 {
		t.Errorf("unexpected result %+v", res)
	}

	body, ok := objects.Get(res.Key)
	if !ok {
		t.Fatal("sheet was not stored")
	}

	var sheet DaySheet
	if err := json.Unmarshal(body, &sheet); err != nil {
		t.Fatal(err)
	}
	if len(sheet.Appointments) != 2 || sheet.Appointments[0].Time != "09:00" {
		t.Errorf("sheet should list the day in agenda order, got %+v", sheet.Appointments)
	}

	if _, err := uc.Execute(ctx, shop.ID, nil, "19-10-2026"); !httperr.IsBusiness(err, "invalid_date") {
		t.Errorf("expected invalid_date, got %v", err)
	}
}
