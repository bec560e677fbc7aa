package main

import (
	"testing"

	"ktm-can-service/ktm"
)

func TestRedisValues(t *testing.T) {
	tests := []struct {
		name     string
		record   ktm.Record
		expected map[string]interface{}
	}{
		{
			name:   "booleans as on/off",
			record: ktm.LightsFrame{DRLActive: true, LowBeamActive: true},
			expected: map[string]interface{}{
				"drl_active":       "on",
				"high_beam_active": "off",
				"low_beam_active":  "on",
				"high_beam_broken": "off",
				"low_beam_broken":  "off",
			},
		},
		{
			name:   "temperature with one decimal",
			record: ktm.SensorFrame{RPM: 1200, Gear: 2, KickstandUp: true, CoolantTempC: 87.5},
			expected: map[string]interface{}{
				"rpm":           1200,
				"gear":          2,
				"kickstand_up":  "on",
				"kickstand_err": "off",
				"coolant_temp":  "87.5",
			},
		},
		{
			name:   "ride mode label",
			record: ktm.ThrottleStateFrame{ThrottleOpen: true, RequestedMap: 1, RideMode: ktm.RideMode{Kind: ktm.RideModeTrack, Mode: 0xED}},
			expected: map[string]interface{}{
				"throttle_open":          "on",
				"requested_throttle_map": 1,
				"ride_mode":              "Track",
			},
		},
		{
			name:   "unmapped keyed by identifier",
			record: ktm.Unmapped{ID: 0x7E0, Data: [8]byte{0xAA}},
			expected: map[string]interface{}{
				"0x7E0": "AA 00 00 00 00 00 00 00",
			},
		},
		{
			name:     "empty record",
			record:   ktm.Empty{ID: ktm.EngineID},
			expected: map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redisValues(tt.record)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for k, v := range tt.expected {
				if got[k] != v {
					t.Errorf("%s: expected %v (%T), got %v (%T)", k, v, v, got[k], got[k])
				}
			}
		})
	}
}

func TestRedisKeys(t *testing.T) {
	keys := RedisKeys{Prefix: "ktm-can"}

	if got := keys.Hash(ktm.SensorID); got != "ktm-can:sensor" {
		t.Errorf("unexpected hash key %q", got)
	}
	if got := keys.Channel(ktm.LightsID); got != "ktm-can lights" {
		t.Errorf("unexpected channel %q", got)
	}
	if got := keys.Hash(0x999); got != "ktm-can:unmapped" {
		t.Errorf("unexpected hash key %q", got)
	}
	if got := keys.RawChannel(); got != "ktm-can:raw" {
		t.Errorf("unexpected raw channel %q", got)
	}
	if got := keys.FaultSet(); got != "ktm-can:fault" {
		t.Errorf("unexpected fault set %q", got)
	}
}
