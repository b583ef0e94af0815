package service

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Ticker is the fixed-rate driver behind every running room: each interval it
// invokes the per-tick hook and rebroadcasts a snapshot, so no two player
// visible mutations can go unobserved longer than one tick. Broadcasting is
// fire-and-forget; the publisher must never block the loop.
type Ticker struct {
	directory *SessionDirectory
	publisher Publisher
	interval  time.Duration
	stop      chan struct{}
	logger    logrus.FieldLogger
}

// NewTicker creates a ticker driving the directory's rooms at rate Hz.
func NewTicker(d *SessionDirectory, p Publisher, rate int, logger logrus.FieldLogger) *Ticker {
	if rate < 1 {
		rate = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ticker{
		directory: d,
		publisher: p,
		interval:  time.Second / time.Duration(rate),
		stop:      make(chan struct{}),
		logger:    logger,
	}
}

// Run drives the loop until Stop is called. Meant to run on its own
// goroutine.
func (t *Ticker) Run() {
	t.logger.WithField("interval", t.interval).Info("tick loop started")
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			t.logger.Info("tick loop stopped")
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// Stop terminates the loop. Safe to call once.
func (t *Ticker) Stop() {
	close(t.stop)
}

// tick advances every in-progress room and pushes its snapshot.
func (t *Ticker) tick() {
	for _, room := range t.directory.Rooms() {
		if room.State() != RoomInProgress {
			continue
		}
		room.Tick()
		t.publisher.BroadcastSnapshot(room.ID, room.Snapshot())
	}
}
