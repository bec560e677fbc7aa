package ktm

import "testing"

func TestFaultsOf(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected map[Fault]bool
	}{
		{
			name:   "healthy sensor",
			record: SensorFrame{KickstandUp: true, CoolantTempC: 85},
			expected: map[Fault]bool{
				FaultKickstandSensor: false,
				FaultCoolantOverheat: false,
			},
		},
		{
			name:   "overheating with kickstand fault",
			record: SensorFrame{KickstandError: true, CoolantTempC: 104.5},
			expected: map[Fault]bool{
				FaultKickstandSensor: true,
				FaultCoolantOverheat: true,
			},
		},
		{
			name:   "broken high beam",
			record: LightsFrame{HighBeamBroken: true},
			expected: map[Fault]bool{
				FaultHighBeamBroken: true,
				FaultLowBeamBroken:  false,
			},
		},
		{
			name:     "engine carries no faults",
			record:   EngineFrame{},
			expected: nil,
		},
		{
			name:     "unmapped carries no faults",
			record:   Unmapped{ID: 0x999},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FaultsOf(tt.record)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for fault, present := range tt.expected {
				if state, ok := got[fault]; !ok || state != present {
					t.Errorf("fault %d: expected %v, got %v (reported=%v)", fault, present, state, ok)
				}
			}
		})
	}
}

func TestGetFaultConfig(t *testing.T) {
	for _, fault := range []Fault{FaultKickstandSensor, FaultHighBeamBroken, FaultLowBeamBroken, FaultCoolantOverheat} {
		config, ok := GetFaultConfig(fault)
		if !ok {
			t.Errorf("fault %d: missing config", fault)
			continue
		}
		if config.Code != fault || config.Description == "" {
			t.Errorf("fault %d: bad config %+v", fault, config)
		}
	}

	if _, ok := GetFaultConfig(FaultNone); ok {
		t.Error("FaultNone should have no config")
	}
}
