package ktm

import (
	"fmt"
	"sort"
	"strings"
)

// Field keys of the generic view. Downstream renderers and telemetry consumers
// depend on these names.
const (
	FieldRPM                   = "rpm"
	FieldThrottle              = "throttle"
	FieldKillSwitch            = "kill_switch"
	FieldThrottleMap           = "throttle_map"
	FieldGear                  = "gear"
	FieldClutchIn              = "clutch_in"
	FieldThrottleOpen          = "throttle_open"
	FieldRequestedThrottleMap  = "requested_throttle_map"
	FieldRideMode              = "ride_mode"
	FieldFrontWheel            = "front_wheel"
	FieldRearWheel             = "rear_wheel"
	FieldTilt                  = "tilt"
	FieldLean                  = "lean"
	FieldFrontBrake            = "front_brake"
	FieldRearBrake             = "rear_brake"
	FieldTractionControlButton = "traction_control_button"
	FieldKickstandUp           = "kickstand_up"
	FieldKickstandErr          = "kickstand_err"
	FieldCoolantTemp           = "coolant_temp"
	FieldKillSwitchRunning     = "kill_switch_running"
	FieldFuelLevelPercent      = "fuel_level_percent"
	FieldDRLActive             = "drl_active"
	FieldHighBeamActive        = "high_beam_active"
	FieldLowBeamActive         = "low_beam_active"
	FieldHighBeamBroken        = "high_beam_broken"
	FieldLowBeamBroken         = "low_beam_broken"
	FieldUnmapped              = "unmapped"
)

// Fields is the key-value view of a Record. Values are int, bool, float64 or string.
type Fields map[string]interface{}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the fields as sorted key=value pairs.
func (f Fields) String() string {
	parts := make([]string, 0, len(f))
	for _, k := range f.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return strings.Join(parts, " ")
}

func (f EngineFrame) Fields() Fields {
	return Fields{
		FieldRPM:         int(f.RPM),
		FieldThrottle:    int(f.Throttle),
		FieldKillSwitch:  int(f.KillSwitch),
		FieldThrottleMap: int(f.ThrottleMap),
	}
}

func (f GearFrame) Fields() Fields {
	return Fields{
		FieldGear:     int(f.Gear),
		FieldClutchIn: f.ClutchIn,
	}
}

func (f ThrottleStateFrame) Fields() Fields {
	return Fields{
		FieldThrottleOpen:         f.ThrottleOpen,
		FieldRequestedThrottleMap: int(f.RequestedMap),
		FieldRideMode:             f.RideMode.String(),
	}
}

func (f WheelSpeedFrame) Fields() Fields {
	return Fields{
		FieldFrontWheel: int(f.FrontWheel),
		FieldRearWheel:  int(f.RearWheel),
		FieldTilt:       int(f.Tilt),
		FieldLean:       int(f.Lean),
	}
}

func (f BrakeFrame) Fields() Fields {
	return Fields{
		FieldFrontBrake: int(f.FrontBrake),
		FieldRearBrake:  int(f.RearBrake),
	}
}

func (f TractionFrame) Fields() Fields {
	return Fields{
		FieldTractionControlButton: int(f.ButtonState),
	}
}

func (f SensorFrame) Fields() Fields {
	return Fields{
		FieldRPM:          int(f.RPM),
		FieldGear:         int(f.Gear),
		FieldKickstandUp:  f.KickstandUp,
		FieldKickstandErr: f.KickstandError,
		FieldCoolantTemp:  f.CoolantTempC,
	}
}

func (f KillSwitchState) Fields() Fields {
	return Fields{
		FieldKillSwitchRunning: f.Running,
	}
}

func (f FuelLevel) Fields() Fields {
	return Fields{
		FieldFuelLevelPercent: f.Percent,
	}
}

func (f LightsFrame) Fields() Fields {
	return Fields{
		FieldDRLActive:      f.DRLActive,
		FieldHighBeamActive: f.HighBeamActive,
		FieldLowBeamActive:  f.LowBeamActive,
		FieldHighBeamBroken: f.HighBeamBroken,
		FieldLowBeamBroken:  f.LowBeamBroken,
	}
}

func (u Unmapped) Fields() Fields {
	return Fields{
		FieldUnmapped: u.Hex(),
	}
}

func (Empty) Fields() Fields {
	return Fields{}
}

func hexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
