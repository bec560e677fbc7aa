package ktm

import (
	"errors"
	"fmt"

	"github.com/brutella/can"
)

const (
	// KTM 790 Duke CAN IDs
	EngineID         = 0x120 // Throttle/mode + RPM, 20ms
	GearClutchID     = 0x129 // Gear and clutch, 20ms
	ThrottleStateID  = 0x12A // Throttle state, requested map, ride mode, 50ms
	WheelSpeedID     = 0x12B // Wheel speeds, lean/tilt, 10ms
	BrakesID         = 0x290 // Brake pressures, 10ms
	TractionButtonID = 0x450 // Traction control button, 50ms
	SensorID         = 0x540 // Coolant, kickstand, 100ms
	KillSwitchID     = 0x550
	FuelLevelID      = 0x552
	LightsID         = 0x650

	// FrameLength is the payload length every frame on this bus carries
	FrameLength = 8

	unmappedKey = "unmapped"
)

// ErrInvalidLength is returned by Decode for payloads that are not exactly FrameLength bytes.
var ErrInvalidLength = errors.New("ktm: CAN payload must be exactly 8 bytes")

// ErrNotDataFrame is returned by DecodeFrame for remote request and error frames.
var ErrNotDataFrame = errors.New("ktm: not a CAN data frame")

type decodeFunc func(data []byte) (Record, bool)

type channel struct {
	name   string
	key    string
	decode decodeFunc
}

func adapt[T Record](fn func([]byte) (T, bool)) decodeFunc {
	return func(data []byte) (Record, bool) {
		r, ok := fn(data)
		if !ok {
			return nil, false
		}
		return r, true
	}
}

var channels = map[uint32]channel{
	EngineID:         {"Throttle/Mode", "engine", adapt(DecodeEngine)},
	GearClutchID:     {"Gear/Clutch", "gear", adapt(DecodeGear)},
	ThrottleStateID:  {"Throttle State", "throttle-state", adapt(DecodeThrottleState)},
	WheelSpeedID:     {"Wheel/Lean", "wheel", adapt(DecodeWheelSpeed)},
	BrakesID:         {"Brakes", "brakes", adapt(DecodeBrakes)},
	TractionButtonID: {"TC Button", "tc-button", adapt(DecodeTraction)},
	SensorID:         {"Sensor", "sensor", adapt(DecodeSensor)},
	KillSwitchID:     {"Kill Switch", "kill-switch", adapt(DecodeKillSwitch)},
	FuelLevelID:      {"Fuel Level", "fuel", adapt(DecodeFuelLevel)},
	LightsID:         {"Lights/LED Status", "lights", adapt(DecodeLights)},
}

// KnownIDs returns the identifiers this decoder understands, in ascending order.
func KnownIDs() []uint32 {
	return []uint32{
		EngineID,
		GearClutchID,
		ThrottleStateID,
		WheelSpeedID,
		BrakesID,
		TractionButtonID,
		SensorID,
		KillSwitchID,
		FuelLevelID,
		LightsID,
	}
}

// IsKnownID reports whether id is one of the identifiers emitted by this vehicle.
func IsKnownID(id uint32) bool {
	_, ok := channels[id]
	return ok
}

// NameOf returns the channel label for id, or "Unknown (0x<ID>)".
func NameOf(id uint32) string {
	if ch, ok := channels[id]; ok {
		return ch.name
	}
	return fmt.Sprintf("Unknown (0x%X)", id)
}

// KeyOf returns a short stable slug for id, suitable as a storage key suffix.
func KeyOf(id uint32) string {
	if ch, ok := channels[id]; ok {
		return ch.key
	}
	return unmappedKey
}

// Decode routes an 8-byte payload to the decoder registered for id. Unknown
// identifiers yield an Unmapped record; a payload of any other length fails
// with ErrInvalidLength.
func Decode(id uint32, data []byte) (Record, error) {
	if len(data) != FrameLength {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLength, len(data))
	}

	ch, ok := channels[id]
	if !ok {
		u := Unmapped{ID: id}
		copy(u.Data[:], data)
		return u, nil
	}

	r, ok := ch.decode(data)
	if !ok {
		return Empty{ID: id}, nil
	}
	return r, nil
}

// DecodeFrame decodes the valid bytes of a CAN frame. RTR and error frames
// carry no payload for their identifier and are rejected.
func DecodeFrame(frame can.Frame) (Record, error) {
	if frame.ID&(can.MaskRtr|can.MaskErr) != 0 {
		return nil, fmt.Errorf("%w: ID=0x%08X", ErrNotDataFrame, frame.ID)
	}
	if frame.Length > FrameLength {
		return nil, fmt.Errorf("%w, got length %d", ErrInvalidLength, frame.Length)
	}
	return Decode(frame.ID, frame.Data[:frame.Length])
}
