package ktm

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{"ignition on", EngineFrame{KillSwitch: 1}, "⏸️ IGN ON ⛽ Closed"},
		{"partial throttle", EngineFrame{RPM: 4200, Throttle: 40}, "🔥 4200 RPM ⛽ 40%"},
		{"full gas", EngineFrame{RPM: 9000, Throttle: 95}, "🔥 9000 RPM 🏎️ FULL GAS!"},
		{"neutral", GearFrame{}, "⚫ N"},
		{"third with clutch", GearFrame{Gear: 3, ClutchIn: true}, "3️⃣ 🔘CLUTCH"},
		{"reserved gear", GearFrame{Gear: 7}, "?"},
		{"throttle state", ThrottleStateFrame{ThrottleOpen: true, RequestedMap: 1, RideMode: newRideMode(0xED, 0)}, "🎛️ Throttle: OPEN Map:1 Mode:Track"},
		{"raw ride mode", ThrottleStateFrame{RideMode: newRideMode(0x37, 0x3C)}, "🎛️ Throttle: CLOSED Map:0 Mode:0x37 / 0x3C"},
		{"wheels stopped", WheelSpeedFrame{}, "🏍️ stopped"},
		{"wheels moving", WheelSpeedFrame{FrontWheel: 320, RearWheel: 330, Lean: -12, Tilt: 2}, "🏍️ F:320 R:330 Lean:-12° Tilt:2°"},
		{"brakes released", BrakeFrame{}, "Released"},
		{"front brake", BrakeFrame{FrontBrake: 12}, "🛑FRONT"},
		{"both brakes", BrakeFrame{FrontBrake: 12, RearBrake: 3}, "🛑FRONT 🛑REAR"},
		{"tc pressed", TractionFrame{ButtonState: 1}, "🎛️ TC Button: PRESSED"},
		{"tc released", TractionFrame{}, "🎛️ TC Button: RELEASED"},
		{"sensor", SensorFrame{RPM: 4000, Gear: 4, KickstandUp: true, CoolantTempC: 90}, "🌡️ RPM:4000 Gear:4 Temp:90.0°C Kickstand:UP"},
		{"kill run", KillSwitchState{Running: true}, "🔴 Kill: RUN"},
		{"kill stop", KillSwitchState{}, "🔴 Kill: STOP"},
		{"fuel", FuelLevel{Percent: 73}, "⛽ 73% full"},
		{"lights off", LightsFrame{}, "💡 OFF"},
		{"both beams", LightsFrame{HighBeamActive: true, LowBeamActive: true}, "💡 LOW BEAM HIGH BEAM"},
		{"broken beam", LightsFrame{DRLActive: true, LowBeamBroken: true}, "💡 DRL LOW BEAM ❌"},
		{"unmapped", Unmapped{ID: 0x999}, "Unknown (0x999)"},
		{"empty", Empty{ID: EngineID}, "Throttle/Mode: ?"},
		{"nil", nil, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.record); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRender_DecodedUnknownID(t *testing.T) {
	r, err := Decode(0x999, make([]byte, 8))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got := Render(r); got != "Unknown (0x999)" {
		t.Errorf("expected %q, got %q", "Unknown (0x999)", got)
	}
}
