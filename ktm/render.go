package ktm

import (
	"fmt"
	"strings"
)

// throttle values at or above this read as full gas
const fullThrottle = 95

// Render formats a record as a single operator-facing line.
func Render(r Record) string {
	switch f := r.(type) {
	case EngineFrame:
		return renderEngine(f)
	case GearFrame:
		return renderGear(f)
	case ThrottleStateFrame:
		state := "CLOSED"
		if f.ThrottleOpen {
			state = "OPEN"
		}
		return fmt.Sprintf("🎛️ Throttle: %s Map:%d Mode:%s", state, f.RequestedMap, f.RideMode)
	case WheelSpeedFrame:
		return renderWheelSpeed(f)
	case BrakeFrame:
		return renderBrakes(f)
	case TractionFrame:
		state := "RELEASED"
		if f.Pressed() {
			state = "PRESSED"
		}
		return "🎛️ TC Button: " + state
	case SensorFrame:
		kickstand := "DOWN"
		if f.KickstandUp {
			kickstand = "UP"
		}
		return fmt.Sprintf("🌡️ RPM:%d Gear:%d Temp:%.1f°C Kickstand:%s", f.RPM, f.Gear, f.CoolantTempC, kickstand)
	case KillSwitchState:
		if f.Running {
			return "🔴 Kill: RUN"
		}
		return "🔴 Kill: STOP"
	case FuelLevel:
		return fmt.Sprintf("⛽ %d%% full", f.Percent)
	case LightsFrame:
		return renderLights(f)
	case Empty:
		return NameOf(f.ID) + ": ?"
	case nil:
		return "?"
	}
	return NameOf(r.CANID())
}

func renderEngine(f EngineFrame) string {
	var sb strings.Builder

	if f.RPM > 0 {
		fmt.Fprintf(&sb, "🔥 %d RPM ", f.RPM)
	} else {
		sb.WriteString("⏸️ IGN ON ")
	}

	switch {
	case f.Throttle >= fullThrottle:
		sb.WriteString("🏎️ FULL GAS!")
	case f.Throttle > 0:
		fmt.Fprintf(&sb, "⛽ %d%%", f.Throttle)
	default:
		sb.WriteString("⛽ Closed")
	}

	return sb.String()
}

func renderGear(f GearFrame) string {
	var sb strings.Builder

	switch {
	case f.Gear == 0:
		sb.WriteString("⚫ N")
	case f.Gear <= 6:
		fmt.Fprintf(&sb, "%d\ufe0f\u20e3", f.Gear)
	default:
		sb.WriteString("?")
	}

	if f.ClutchIn {
		sb.WriteString(" 🔘CLUTCH")
	}
	return sb.String()
}

func renderWheelSpeed(f WheelSpeedFrame) string {
	var parts []string

	if f.FrontMoving() || f.RearMoving() {
		parts = append(parts, fmt.Sprintf("F:%d R:%d", f.FrontWheel, f.RearWheel))
	}
	if f.Lean != 0 {
		parts = append(parts, fmt.Sprintf("Lean:%d°", f.Lean))
	}
	if f.Tilt != 0 {
		parts = append(parts, fmt.Sprintf("Tilt:%d°", f.Tilt))
	}

	if len(parts) == 0 {
		return "🏍️ stopped"
	}
	return "🏍️ " + strings.Join(parts, " ")
}

func renderBrakes(f BrakeFrame) string {
	if !f.Braking() {
		return "Released"
	}

	var parts []string
	if f.FrontBraking() {
		parts = append(parts, "🛑FRONT")
	}
	if f.RearBraking() {
		parts = append(parts, "🛑REAR")
	}
	return strings.Join(parts, " ")
}

func renderLights(f LightsFrame) string {
	var sb strings.Builder
	sb.WriteString("💡")

	if f.DRLActive {
		sb.WriteString(" DRL")
	}
	if f.LowBeamActive {
		sb.WriteString(" LOW BEAM")
	}
	if f.HighBeamActive {
		sb.WriteString(" HIGH BEAM")
	}
	if f.HighBeamBroken {
		sb.WriteString(" HIGH BEAM ❌")
	}
	if f.LowBeamBroken {
		sb.WriteString(" LOW BEAM ❌")
	}
	if f == (LightsFrame{}) {
		sb.WriteString(" OFF")
	}

	return sb.String()
}
