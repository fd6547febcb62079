package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"goodnight/models"

	"github.com/redis/go-redis/v9"
)

// Channel carries reservation change events between instances.
const Channel = "reservation-events"

// Emitter publishes reservation events. With Redis, every instance
// (the sender included) receives the event through Run; without it the
// event goes straight to the local handler.
type Emitter struct {
	rdb   *redis.Client
	local func(models.ReservationEvent)
}

func NewEmitter(rdb *redis.Client, local func(models.ReservationEvent)) *Emitter {
	if local == nil {
		local = func(models.ReservationEvent) {}
	}
	return &Emitter{rdb: rdb, local: local}
}

// Emit stamps and publishes ev. Publishing failures are logged and the
// event is delivered locally instead.
func (e *Emitter) Emit(ctx context.Context, ev models.ReservationEvent) {
	if ev.Type == "" {
		ev.Type = "reservations"
	}
	if ev.At == 0 {
		ev.At = time.Now().UnixMilli()
	}
	if e.rdb == nil {
		e.local(ev)
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}
	if err := e.rdb.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
		e.local(ev)
	}
}

// Run relays events from Redis to the local handler until ctx is done.
func (e *Emitter) Run(ctx context.Context) {
	if e.rdb == nil {
		return
	}
	sub := e.rdb.Subscribe(ctx, Channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Printf("[EventWorker] Listening on %s", Channel)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.ReservationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[EventWorker] Failed to parse event: %v", err)
				continue
			}
			e.local(ev)
		}
	}
}
