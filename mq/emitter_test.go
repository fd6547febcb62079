package mq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodnight/models"
)

func TestEmitWithoutRedisDeliversLocally(t *testing.T) {
	var got []models.ReservationEvent
	e := NewEmitter(nil, func(ev models.ReservationEvent) { got = append(got, ev) })

	e.Emit(context.Background(), models.ReservationEvent{Action: "confirm", ReservationID: "r-1"})

	require.Len(t, got, 1)
	assert.Equal(t, "reservations", got[0].Type)
	assert.Equal(t, "r-1", got[0].ReservationID)
	assert.NotZero(t, got[0].At)
}

func TestRunWithoutRedisReturns(t *testing.T) {
	e := NewEmitter(nil, nil)
	e.Run(context.Background())
	e.Emit(context.Background(), models.ReservationEvent{})
}
