package main

import (
	"context"
	"sync"

	"ktm-can-service/dump"

	"github.com/brutella/can"
	"github.com/go-redis/redis/v8"
)

// IPCRx receives capture lines published to the raw channel by a CAN bridge
// and hands the parsed frames to a handler.
type IPCRx struct {
	log     *LeveledLogger
	redis   *redis.Client
	keys    RedisKeys
	handler can.Handler
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	rawSubscription *redis.PubSub
}

func NewIPCRx(logger *LeveledLogger, redis *redis.Client, keys RedisKeys, handler can.Handler) *IPCRx {
	ctx, cancel := context.WithCancel(context.Background())

	rx := &IPCRx{
		log:     logger,
		redis:   redis,
		keys:    keys,
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	rx.rawSubscription = rx.redis.Subscribe(rx.ctx, keys.RawChannel())
	go rx.handleRawSubscription()

	return rx
}

func (rx *IPCRx) handleRawSubscription() {
	defer close(rx.done)

	rx.log.Info("Listening for frames on %s", rx.keys.RawChannel())

	for {
		msg, err := rx.rawSubscription.Receive(rx.ctx)
		if err != nil {
			// Receive does not watch ctx; a cancelled ctx means Destroy closed the subscription
			if rx.ctx.Err() != nil {
				return
			}
			// Check for closed client - panic to trigger systemd restart
			if err.Error() == "redis: client is closed" {
				rx.log.Error("Redis connection lost on raw subscription - restarting service")
				panic("Redis disconnected")
			}
			rx.log.Error("Raw subscription error: %v", err)
			continue
		}

		switch m := msg.(type) {
		case *redis.Message:
			rx.handlePayload(m.Payload)

		case *redis.Subscription:
			rx.log.Debug("Raw subscription event: %s %s", m.Channel, m.Kind)
		}
	}
}

func (rx *IPCRx) handlePayload(payload string) {
	entry, err := dump.Parse(payload)
	if err == dump.ErrSkip {
		return
	}
	if err != nil {
		rx.log.Warn("Ignoring raw message: %v", err)
		return
	}

	rx.handler.Handle(entry.Frame)
}

// Done is closed when the subscription loop exits.
func (rx *IPCRx) Done() <-chan struct{} {
	return rx.done
}

func (rx *IPCRx) Destroy() {
	rx.mu.Lock()
	defer rx.mu.Unlock()

	if rx.cancel != nil {
		rx.cancel()
	}

	if rx.rawSubscription != nil {
		rx.rawSubscription.Close()
	}
}
