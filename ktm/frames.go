package ktm

import (
	"fmt"
	"strconv"
)

// Record is a decoded CAN message. The concrete type identifies the message
// family; use a type switch to reach the typed fields.
type Record interface {
	// CANID returns the identifier the record was decoded from
	CANID() uint32

	// Fields returns the generic key-value view used by renderers and telemetry sinks
	Fields() Fields

	isRecord()
}

// EngineFrame is decoded from 0x120 (20ms).
type EngineFrame struct {
	RPM         uint16
	Throttle    uint8 // raw 0-255
	KillSwitch  uint8 // 1 = RUN, 0 = STOP
	ThrottleMap uint8 // 0 = Mode 1, 1 = Mode 2
}

// Running reports whether the kill switch is in the RUN position.
func (f EngineFrame) Running() bool { return f.KillSwitch == 1 }

// GearFrame is decoded from 0x129 (20ms).
type GearFrame struct {
	Gear     uint8 // 0 = neutral, 1-6, 7 = reserved
	ClutchIn bool
}

func (f GearFrame) Neutral() bool { return f.Gear == 0 }

func (f GearFrame) GearName() string {
	return gearName(f.Gear)
}

// RideModeKind enumerates the ride mode bytes seen on 0x12A.
type RideModeKind uint8

const (
	// RideModeUnrecognized marks a mode byte outside the known table.
	// RideMode.String falls back to the raw bytes in that case.
	RideModeUnrecognized RideModeKind = iota
	RideModeRain
	RideModeStreet
	RideModeSport
	RideModeTrack
	RideModeUnknown
	RideModeOff
)

var rideModeBytes = map[byte]RideModeKind{
	0xAD: RideModeRain,
	0x2D: RideModeStreet,
	0x6D: RideModeSport,
	0xED: RideModeTrack,
	0x89: RideModeUnknown,
	0xC9: RideModeOff,
}

var rideModeNames = map[RideModeKind]string{
	RideModeRain:    "Rain",
	RideModeStreet:  "Street",
	RideModeSport:   "Sport",
	RideModeTrack:   "Track",
	RideModeUnknown: "Unknown",
	RideModeOff:     "Off",
}

// RideMode keeps the raw mode and status bytes next to the looked up kind.
// Only the mode byte is interpreted; the status byte is carried for
// diagnostics when the mode byte is not recognized.
type RideMode struct {
	Kind   RideModeKind
	Mode   byte
	Status byte
}

func newRideMode(mode, status byte) RideMode {
	return RideMode{
		Kind:   rideModeBytes[mode],
		Mode:   mode,
		Status: status,
	}
}

func (m RideMode) String() string {
	if name, ok := rideModeNames[m.Kind]; ok {
		return name
	}
	return fmt.Sprintf("0x%X / 0x%X", m.Mode, m.Status)
}

// ThrottleStateFrame is decoded from 0x12A (50ms).
type ThrottleStateFrame struct {
	ThrottleOpen bool
	RequestedMap uint8
	RideMode     RideMode
}

func (f ThrottleStateFrame) Mode1() bool { return f.RequestedMap == 0 }
func (f ThrottleStateFrame) Mode2() bool { return f.RequestedMap == 1 }

// WheelSpeedFrame is decoded from 0x12B (10ms). Speeds and angles are raw CAN units.
// Angles are signed 12-bit: 0x000 neutral, 0x001 right/forward, 0xFFF left/back.
type WheelSpeedFrame struct {
	FrontWheel uint16
	RearWheel  uint16
	Tilt       int16
	Lean       int16
}

func (f WheelSpeedFrame) LeaningRight() bool { return f.Lean > 0 }
func (f WheelSpeedFrame) LeaningLeft() bool  { return f.Lean < 0 }
func (f WheelSpeedFrame) FrontMoving() bool  { return f.FrontWheel > 0 }
func (f WheelSpeedFrame) RearMoving() bool   { return f.RearWheel > 0 }

// PossibleWheelie reports a front wheel turning at less than 30% of the rear.
func (f WheelSpeedFrame) PossibleWheelie() bool {
	return f.RearWheel > 0 && float64(f.FrontWheel) < float64(f.RearWheel)*0.3
}

// BrakeFrame is decoded from 0x290 (10ms). Pressures are raw.
type BrakeFrame struct {
	FrontBrake uint16
	RearBrake  uint16
}

func (f BrakeFrame) FrontBraking() bool { return f.FrontBrake > 0 }
func (f BrakeFrame) RearBraking() bool  { return f.RearBrake > 0 }
func (f BrakeFrame) Braking() bool      { return f.FrontBraking() || f.RearBraking() }

// TractionFrame is decoded from 0x450 (50ms).
type TractionFrame struct {
	ButtonState uint8
}

func (f TractionFrame) Pressed() bool { return f.ButtonState == 1 }

// SensorFrame is decoded from 0x540 (100ms). RPM updates slower here than on 0x120.
type SensorFrame struct {
	RPM            uint16
	Gear           uint8
	KickstandUp    bool
	KickstandError bool
	CoolantTempC   float64
}

const (
	CoolantNormalMinC = 60.0
	CoolantNormalMaxC = 100.0
)

// KickstandSafe reports a raised kickstand with a healthy sensor.
func (f SensorFrame) KickstandSafe() bool { return f.KickstandUp && !f.KickstandError }

func (f SensorFrame) CoolantNormal() bool {
	return f.CoolantTempC >= CoolantNormalMinC && f.CoolantTempC <= CoolantNormalMaxC
}

func (f SensorFrame) Overheating() bool { return f.CoolantTempC > CoolantNormalMaxC }

func (f SensorFrame) GearName() string {
	return gearName(f.Gear)
}

// KillSwitchState is decoded from 0x550.
type KillSwitchState struct {
	Running bool
}

// FuelLevel is decoded from 0x552. Percent is clamped to 0-100.
type FuelLevel struct {
	Percent int
}

// LightsFrame is decoded from 0x650.
type LightsFrame struct {
	DRLActive      bool
	HighBeamActive bool
	LowBeamActive  bool
	HighBeamBroken bool
	LowBeamBroken  bool
}

// Unmapped carries the payload of an identifier this vehicle table does not know.
type Unmapped struct {
	ID   uint32
	Data [8]byte
}

// Hex renders the payload as uppercase, space separated byte pairs.
func (u Unmapped) Hex() string {
	return hexBytes(u.Data[:])
}

// Empty is returned for a known identifier whose decoder had no data to work with.
type Empty struct {
	ID uint32
}

func gearName(gear uint8) string {
	switch gear {
	case 0:
		return "N"
	case 7:
		return "?"
	}
	return strconv.Itoa(int(gear))
}

func (EngineFrame) CANID() uint32        { return EngineID }
func (GearFrame) CANID() uint32          { return GearClutchID }
func (ThrottleStateFrame) CANID() uint32 { return ThrottleStateID }
func (WheelSpeedFrame) CANID() uint32    { return WheelSpeedID }
func (BrakeFrame) CANID() uint32         { return BrakesID }
func (TractionFrame) CANID() uint32      { return TractionButtonID }
func (SensorFrame) CANID() uint32        { return SensorID }
func (KillSwitchState) CANID() uint32    { return KillSwitchID }
func (FuelLevel) CANID() uint32          { return FuelLevelID }
func (LightsFrame) CANID() uint32        { return LightsID }
func (u Unmapped) CANID() uint32         { return u.ID }
func (e Empty) CANID() uint32            { return e.ID }

func (EngineFrame) isRecord()        {}
func (GearFrame) isRecord()          {}
func (ThrottleStateFrame) isRecord() {}
func (WheelSpeedFrame) isRecord()    {}
func (BrakeFrame) isRecord()         {}
func (TractionFrame) isRecord()      {}
func (SensorFrame) isRecord()        {}
func (KillSwitchState) isRecord()    {}
func (FuelLevel) isRecord()          {}
func (LightsFrame) isRecord()        {}
func (Unmapped) isRecord()           {}
func (Empty) isRecord()              {}
