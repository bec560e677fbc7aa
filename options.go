package main

import (
	"log"
)

type LogLevel int

const (
	LogLevelNone  LogLevel = 0
	LogLevelError LogLevel = 1
	LogLevelWarn  LogLevel = 2
	LogLevelInfo  LogLevel = 3
	LogLevelDebug LogLevel = 4
)

const (
	DefaultRedisServer = "127.0.0.1"
	DefaultRedisPort   = 6379
	DefaultRedisPrefix = "ktm-can"
)

type Options struct {
	LogLevel        LogLevel
	RedisServerAddr string
	RedisServerPort uint16
	RedisPrefix     string
	PrintOnly       bool // render records to stdout instead of publishing to Redis
	PrintFields     bool
	Realtime        bool    // replay at capture pace
	ReplaySpeed     float64 // realtime multiplier
	Logger          *log.Logger
}

func DefaultOptions() *Options {
	return &Options{
		LogLevel:        LogLevelInfo,
		RedisServerAddr: DefaultRedisServer,
		RedisServerPort: DefaultRedisPort,
		RedisPrefix:     DefaultRedisPrefix,
		ReplaySpeed:     1.0,
	}
}
