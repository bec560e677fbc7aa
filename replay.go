package main

import (
	"context"
	"errors"
	"io"
	"time"

	"ktm-can-service/dump"

	"github.com/brutella/can"
)

// ReplayStats summarizes one replay run.
type ReplayStats struct {
	Entries int
	Skipped int // malformed lines
}

// Replayer feeds a capture into a frame handler.
type Replayer struct {
	log      *LeveledLogger
	handler  can.Handler
	realtime bool
	speed    float64

	// sleep waits for d or until ctx is done
	sleep func(ctx context.Context, d time.Duration) error
}

func NewReplayer(logger *LeveledLogger, handler can.Handler, realtime bool, speed float64) *Replayer {
	if speed <= 0 {
		speed = 1.0
	}

	return &Replayer{
		log:      logger,
		handler:  handler,
		realtime: realtime,
		speed:    speed,
		sleep:    sleepContext,
	}
}

// Run replays every entry of r. In realtime mode the gaps between entry
// timestamps are reproduced, divided by the speed factor.
func (rp *Replayer) Run(ctx context.Context, r io.Reader) (ReplayStats, error) {
	var stats ReplayStats
	var last time.Time

	reader := dump.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		entry, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if errors.Is(err, dump.ErrMalformed) {
			rp.log.Warn("Skipping %v", err)
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		if rp.realtime && !entry.Time.IsZero() {
			if !last.IsZero() && entry.Time.After(last) {
				gap := time.Duration(float64(entry.Time.Sub(last)) / rp.speed)
				if err := rp.sleep(ctx, gap); err != nil {
					return stats, err
				}
			}
			last = entry.Time
		}

		rp.handler.Handle(entry.Frame)
		stats.Entries++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
