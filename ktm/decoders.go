package ktm

import (
	"encoding/binary"
	"math"
)

// Minimum payload lengths per message.
const (
	engineMinLen        = 5
	gearMinLen          = 1
	throttleStateMinLen = 4
	wheelSpeedMinLen    = 8
	brakesMinLen        = 4
	tractionMinLen      = 3
	sensorMinLen        = 8
	killSwitchMinLen    = 1
	fuelLevelMinLen     = 1
	lightsMinLen        = 4
)

// Lights word bit positions (little-endian over bytes 0-3).
const (
	lightsDRLBit            = 3
	lightsHighBeamBit       = 5
	lightsLowBeamBit        = 6
	lightsHighBeamBrokenBit = 26
	lightsLowBeamBrokenBit  = 27
)

// DecodeEngine decodes 0x120. The kill switch bit is inverted on the wire:
// a clear bit means RUN.
func DecodeEngine(data []byte) (EngineFrame, bool) {
	if len(data) < engineMinLen {
		return EngineFrame{}, false
	}

	var killSwitch uint8
	if (data[3]>>4)&0x01 == 0 {
		killSwitch = 1
	}

	return EngineFrame{
		RPM:         bigEndianU16(data[0], data[1]),
		Throttle:    data[2],
		KillSwitch:  killSwitch,
		ThrottleMap: data[4] & 0x01,
	}, true
}

// DecodeGear decodes 0x129.
func DecodeGear(data []byte) (GearFrame, bool) {
	if len(data) < gearMinLen {
		return GearFrame{}, false
	}

	return GearFrame{
		Gear:     hiNibble(data[0]),
		ClutchIn: (data[0]>>3)&0x01 == 1,
	}, true
}

// DecodeThrottleState decodes 0x12A. Byte 1 selects the ride mode, byte 3 is
// only kept for diagnostics.
func DecodeThrottleState(data []byte) (ThrottleStateFrame, bool) {
	if len(data) < throttleStateMinLen {
		return ThrottleStateFrame{}, false
	}

	return ThrottleStateFrame{
		ThrottleOpen: (data[0]>>1)&0x01 == 0,
		RequestedMap: (data[1] >> 6) & 0x01,
		RideMode:     newRideMode(data[1], data[3]),
	}, true
}

// DecodeWheelSpeed decodes 0x12B. Tilt and lean are 12-bit values sharing byte 6:
// tilt = D5 + high nibble of D6, lean = low nibble of D6 + D7.
func DecodeWheelSpeed(data []byte) (WheelSpeedFrame, bool) {
	if len(data) < wheelSpeedMinLen {
		return WheelSpeedFrame{}, false
	}

	tilt := uint16(data[5])<<4 | uint16(hiNibble(data[6]))
	lean := uint16(loNibble(data[6]))<<8 | uint16(data[7])

	return WheelSpeedFrame{
		FrontWheel: bigEndianU16(data[0], data[1]),
		RearWheel:  bigEndianU16(data[2], data[3]),
		Tilt:       signed12(tilt),
		Lean:       signed12(lean),
	}, true
}

// DecodeBrakes decodes 0x290.
func DecodeBrakes(data []byte) (BrakeFrame, bool) {
	if len(data) < brakesMinLen {
		return BrakeFrame{}, false
	}

	return BrakeFrame{
		FrontBrake: bigEndianU16(data[0], data[1]),
		RearBrake:  bigEndianU16(data[2], data[3]),
	}, true
}

// DecodeTraction decodes 0x450.
func DecodeTraction(data []byte) (TractionFrame, bool) {
	if len(data) < tractionMinLen {
		return TractionFrame{}, false
	}

	return TractionFrame{
		ButtonState: data[2] & 0x01,
	}, true
}

// DecodeSensor decodes 0x540. Coolant temperature is a signed big-endian value in 0.1°C.
func DecodeSensor(data []byte) (SensorFrame, bool) {
	if len(data) < sensorMinLen {
		return SensorFrame{}, false
	}

	return SensorFrame{
		RPM:            bigEndianU16(data[1], data[2]),
		Gear:           loNibble(data[3]),
		KickstandUp:    (data[1]>>7)&0x01 == 0,
		KickstandError: (data[4]>>7)&0x01 == 1,
		CoolantTempC:   float64(bigEndianS16(data[6], data[7])) / 10.0,
	}, true
}

// DecodeKillSwitch decodes 0x550.
func DecodeKillSwitch(data []byte) (KillSwitchState, bool) {
	if len(data) < killSwitchMinLen {
		return KillSwitchState{}, false
	}

	return KillSwitchState{
		Running: data[0]&0x10 != 0,
	}, true
}

// DecodeFuelLevel decodes 0x552. The raw byte falls as the tank fills.
func DecodeFuelLevel(data []byte) (FuelLevel, bool) {
	if len(data) < fuelLevelMinLen {
		return FuelLevel{}, false
	}

	percent := int(math.Round(float64(256-int(data[0])) / 255.0 * 100))
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	return FuelLevel{Percent: percent}, true
}

// DecodeLights decodes 0x650. High beam is bit 5 and low beam bit 6; the
// reverse reading is wrong on this vehicle.
func DecodeLights(data []byte) (LightsFrame, bool) {
	if len(data) < lightsMinLen {
		return LightsFrame{}, false
	}

	word := binary.LittleEndian.Uint32(data[0:4])
	bit := func(n uint) bool { return word&(1<<n) != 0 }

	return LightsFrame{
		DRLActive:      bit(lightsDRLBit),
		HighBeamActive: bit(lightsHighBeamBit),
		LowBeamActive:  bit(lightsLowBeamBit),
		HighBeamBroken: bit(lightsHighBeamBrokenBit),
		LowBeamBroken:  bit(lightsLowBeamBrokenBit),
	}, true
}
