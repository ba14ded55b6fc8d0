package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// RedisSink publica no canal pub/sub da barbearia; o gateway de mensagens
// (WhatsApp/push) e o painel assinam "barbershop:{id}:events".
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func Channel(barbershopID uint) string {
	return fmt.Sprintf("barbershop:%d:events", barbershopID)
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.client.Publish(ctx, Channel(ev.BarbershopID), payload).Err()
}

// LogSink registra os eventos no log; usado quando não há Redis.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, ev Event) error {
	s.log.Info().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Uint("barbershop_id", ev.BarbershopID).
		Uint("appointment_id", ev.AppointmentID).
		Int("position", ev.Position).
		Msg("notification")
	return nil
}
