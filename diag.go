package main

import (
	"context"
	"sync"

	"ktm-can-service/ktm"

	"github.com/go-redis/redis/v8"
)

const (
	diagEventStream       = "events:faults"
	diagEventStreamMaxLen = 1000
)

// FaultReporter tracks fault presence derived from decoded records.
type FaultReporter interface {
	SetFaults(faults map[ktm.Fault]bool)
}

type Diag struct {
	log         *LeveledLogger
	redis       *redis.Client
	keys        RedisKeys
	mu          sync.RWMutex
	faultStates map[ktm.Fault]bool
	ctx         context.Context
}

func NewDiag(logger *LeveledLogger, redis *redis.Client, keys RedisKeys) *Diag {
	return &Diag{
		log:         logger,
		redis:       redis,
		keys:        keys,
		faultStates: make(map[ktm.Fault]bool),
		ctx:         context.Background(),
	}
}

func (d *Diag) Destroy() {}

// SetFaults updates only the faults present in the map; others keep their state.
func (d *Diag) SetFaults(faults map[ktm.Fault]bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for fault, present := range faults {
		if fault == ktm.FaultNone || d.faultStates[fault] == present {
			continue
		}

		config, ok := ktm.GetFaultConfig(fault)
		if !ok {
			d.log.Warn("Unknown fault code: %d", fault)
			continue
		}

		d.faultStates[fault] = present

		if present {
			d.log.Warn("Fault set: code=%d, description=%s", fault, config.Description)
			d.reportFaultPresent(fault, config)
		} else {
			d.log.Info("Fault cleared: code=%d, description=%s", fault, config.Description)
			d.reportFaultAbsent(fault)
		}
	}
}

// ActiveFaults returns the faults currently set.
func (d *Diag) ActiveFaults() []ktm.Fault {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var active []ktm.Fault
	for fault, present := range d.faultStates {
		if present {
			active = append(active, fault)
		}
	}
	return active
}

func (d *Diag) reportFaultPresent(fault ktm.Fault, config ktm.FaultConfig) {
	if d.redis == nil {
		return
	}

	pipe := d.redis.Pipeline()

	pipe.SAdd(d.ctx, d.keys.FaultSet(), uint32(fault))

	pipe.XAdd(d.ctx, &redis.XAddArgs{
		Stream: diagEventStream,
		MaxLen: diagEventStreamMaxLen,
		Values: map[string]interface{}{
			"group":       d.keys.DiagGroup(),
			"code":        uint32(fault),
			"description": config.Description,
			"severity":    int(config.Severity),
		},
	})

	pipe.Publish(d.ctx, d.keys.DiagGroup(), "fault")

	if _, err := pipe.Exec(d.ctx); err != nil {
		d.log.Error("Failed to report fault present: %v", err)
	}
}

func (d *Diag) reportFaultAbsent(fault ktm.Fault) {
	if d.redis == nil {
		return
	}

	pipe := d.redis.Pipeline()

	pipe.SRem(d.ctx, d.keys.FaultSet(), uint32(fault))

	pipe.XAdd(d.ctx, &redis.XAddArgs{
		Stream: diagEventStream,
		MaxLen: diagEventStreamMaxLen,
		Values: map[string]interface{}{
			"group": d.keys.DiagGroup(),
			"code":  -int32(fault),
		},
	})

	pipe.Publish(d.ctx, d.keys.DiagGroup(), "fault")

	if _, err := pipe.Exec(d.ctx); err != nil {
		d.log.Error("Failed to report fault absent: %v", err)
	}
}
