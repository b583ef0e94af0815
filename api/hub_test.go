package api

import (
	"testing"

	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestBroadcastReachesRoomSubscribersOnly(t *testing.T) {
	hub := NewHub(quietLogger())
	roomA, roomB := uuid.New(), uuid.New()

	inA := newClient(nil, uuid.New(), roomA, quietLogger())
	inB := newClient(nil, uuid.New(), roomB, quietLogger())
	hub.Register(inA)
	hub.Register(inB)

	hub.BroadcastSnapshot(roomA, service.Snapshot{RoomID: roomA})

	assert.Len(t, inA.send, 1)
	assert.Len(t, inB.send, 0)
}

func TestBroadcastNeverBlocksOnSlowClient(t *testing.T) {
	hub := NewHub(quietLogger())
	roomID := uuid.New()

	// No write pump running: the buffer fills and stays full.
	slow := newClient(nil, uuid.New(), roomID, quietLogger())
	hub.Register(slow)

	for i := 0; i < sendBufferSize*2; i++ {
		hub.BroadcastEvent(roomID, msgSnapshot, service.Snapshot{RoomID: roomID})
	}

	// Reaching here at all proves broadcast dropped instead of blocking.
	assert.Len(t, slow.send, sendBufferSize)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(quietLogger())
	roomID := uuid.New()

	c := newClient(nil, uuid.New(), roomID, quietLogger())
	hub.Register(c)
	hub.Unregister(c)

	hub.BroadcastEvent(roomID, service.EventRoomStarted, nil)
	assert.Len(t, c.send, 0)
}
