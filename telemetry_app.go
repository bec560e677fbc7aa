package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"ktm-can-service/ktm"

	"github.com/brutella/can"
	"github.com/go-redis/redis/v8"
)

const (
	TelemetryAppHealthCheckInterval = 30 * time.Second
)

// Stats counts frames seen by the app.
type Stats struct {
	Frames   uint64
	Decoded  uint64
	Unmapped uint64
	Dropped  uint64
	SendErrs uint64
}

type TelemetryApp struct {
	log    *LeveledLogger
	opts   *Options
	redis  *redis.Client
	ipcTx  *IPCTx
	ipcRx  *IPCRx
	sink   Sink
	diag   FaultReporter
	stats  Stats
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// Ensure TelemetryApp can be subscribed to a can.Bus
var _ can.Handler = (*TelemetryApp)(nil)

func newLogger(opts *Options) *LeveledLogger {
	base := opts.Logger
	if base == nil {
		base = log.New(os.Stderr, fmt.Sprintf("%s: ", ProjectName), log.LstdFlags)
	}
	return NewLeveledLogger(base, opts.LogLevel)
}

// NewTelemetryApp wires the sink for opts: a stdout printer, or Redis
// publishing with fault diagnostics.
func NewTelemetryApp(opts *Options) (*TelemetryApp, error) {
	logger := newLogger(opts)

	if opts.PrintOnly {
		app := newTelemetryApp(logger, newPrintSink(os.Stdout, opts.PrintFields), nil)
		app.opts = opts
		return app, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.RedisServerAddr, opts.RedisServerPort),
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer connectCancel()

	logger.Info("Connecting to Redis at %s:%d...", opts.RedisServerAddr, opts.RedisServerPort)

	if err := client.Ping(connectCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	logger.Info("Successfully connected to Redis")

	keys := RedisKeys{Prefix: opts.RedisPrefix}

	ipcTx := NewIPCTx(logger, client, keys)
	logger.Info("IPC TX component initialized")

	diag := NewDiag(logger, client, keys)
	logger.Info("Diagnostics component initialized")

	app := newTelemetryApp(logger, ipcTx, diag)
	app.opts = opts
	app.redis = client
	app.ipcTx = ipcTx

	go app.redisHealthCheck()

	return app, nil
}

func newTelemetryApp(logger *LeveledLogger, sink Sink, diag FaultReporter) *TelemetryApp {
	ctx, cancel := context.WithCancel(context.Background())

	return &TelemetryApp{
		log:    logger,
		sink:   sink,
		diag:   diag,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Listen subscribes to the raw frame channel. Requires Redis.
func (app *TelemetryApp) Listen() error {
	if app.redis == nil {
		return fmt.Errorf("listening requires a Redis connection")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	app.ipcRx = NewIPCRx(app.log, app.redis, RedisKeys{Prefix: app.opts.RedisPrefix}, app)
	app.log.Info("IPC RX component initialized")
	return nil
}

// Handle decodes a single frame and forwards the record.
func (app *TelemetryApp) Handle(frame can.Frame) {
	app.log.DebugCAN("RX", frame.ID, frame.Data[:], frame.Length)

	app.mu.Lock()
	app.stats.Frames++
	app.mu.Unlock()

	record, err := ktm.DecodeFrame(frame)
	if err != nil {
		app.log.Warn("Dropping frame 0x%03X: %v", frame.ID, err)
		app.count(func(s *Stats) { s.Dropped++ })
		return
	}

	if _, ok := record.(ktm.Unmapped); ok {
		app.log.Debug("Unmapped frame 0x%03X", frame.ID)
		app.count(func(s *Stats) { s.Unmapped++ })
	} else {
		app.count(func(s *Stats) { s.Decoded++ })
	}

	app.log.DebugRecord(record)

	if err := app.sink.SendRecord(record); err != nil {
		app.log.Error("%v", err)
		app.count(func(s *Stats) { s.SendErrs++ })
	}

	if faults := ktm.FaultsOf(record); faults != nil && app.diag != nil {
		app.diag.SetFaults(faults)
	}
}

func (app *TelemetryApp) count(fn func(s *Stats)) {
	app.mu.Lock()
	defer app.mu.Unlock()
	fn(&app.stats)
}

// Stats returns a snapshot of the frame counters.
func (app *TelemetryApp) Stats() Stats {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.stats
}

// Done is closed when the app is destroyed or its listener stops.
func (app *TelemetryApp) Done() <-chan struct{} {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.ipcRx != nil {
		return app.ipcRx.Done()
	}
	return app.ctx.Done()
}

func (app *TelemetryApp) redisHealthCheck() {
	ticker := time.NewTicker(TelemetryAppHealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(app.ctx, 2*time.Second)
			if err := app.redis.Ping(ctx).Err(); err != nil {
				app.log.Error("Redis health check failed: %v", err)
			}
			cancel()
		}
	}
}

func (app *TelemetryApp) Destroy() {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.log.Debug("Shutting down telemetry application...")

	if app.cancel != nil {
		app.cancel()
	}

	if app.ipcRx != nil {
		app.ipcRx.Destroy()
		app.log.Debug("IPC RX shutdown complete")
	}

	if app.ipcTx != nil {
		app.ipcTx.Destroy()
		app.log.Debug("IPC TX shutdown complete")
	}

	if d, ok := app.diag.(*Diag); ok {
		d.Destroy()
		app.log.Debug("Diagnostics shutdown complete")
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.log.Error("Error closing Redis connection: %v", err)
		} else {
			app.log.Debug("Redis connection closed")
		}
	}

	app.log.Debug("Telemetry application shutdown complete")
}
