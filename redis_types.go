package main

import (
	"fmt"

	"ktm-can-service/ktm"
)

// RedisKeys derives every key and channel name from one prefix.
type RedisKeys struct {
	Prefix string
}

// Hash returns the hash holding the latest fields of id's message family.
func (k RedisKeys) Hash(id uint32) string {
	return fmt.Sprintf("%s:%s", k.Prefix, ktm.KeyOf(id))
}

// Channel returns the notification channel for id's message family.
func (k RedisKeys) Channel(id uint32) string {
	return fmt.Sprintf("%s %s", k.Prefix, ktm.KeyOf(id))
}

// RawChannel carries capture lines published by a CAN bridge.
func (k RedisKeys) RawChannel() string {
	return k.Prefix + ":raw"
}

func (k RedisKeys) FaultSet() string {
	return k.Prefix + ":fault"
}

// DiagGroup is the group name used in fault events and as the fault notification channel.
func (k RedisKeys) DiagGroup() string {
	return k.Prefix
}
