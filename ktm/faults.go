package ktm

type Fault uint32

const (
	FaultNone Fault = iota
	FaultKickstandSensor
	FaultHighBeamBroken
	FaultLowBeamBroken
	FaultCoolantOverheat
)

type FaultSeverity int

const (
	SeverityWarning FaultSeverity = iota
	SeverityCritical
)

type FaultConfig struct {
	Code        Fault
	Description string
	Severity    FaultSeverity
}

var faultConfigs = map[Fault]FaultConfig{
	FaultKickstandSensor: {FaultKickstandSensor, "Kickstand sensor error", SeverityWarning},
	FaultHighBeamBroken:  {FaultHighBeamBroken, "High beam broken", SeverityWarning},
	FaultLowBeamBroken:   {FaultLowBeamBroken, "Low beam broken", SeverityCritical},
	FaultCoolantOverheat: {FaultCoolantOverheat, "Coolant over-temperature", SeverityCritical},
}

func GetFaultConfig(fault Fault) (FaultConfig, bool) {
	config, ok := faultConfigs[fault]
	return config, ok
}

// FaultsOf returns the state of every fault the record's message family reports.
// Records that carry no fault information return nil.
func FaultsOf(r Record) map[Fault]bool {
	switch f := r.(type) {
	case SensorFrame:
		return map[Fault]bool{
			FaultKickstandSensor: f.KickstandError,
			FaultCoolantOverheat: f.Overheating(),
		}
	case LightsFrame:
		return map[Fault]bool{
			FaultHighBeamBroken: f.HighBeamBroken,
			FaultLowBeamBroken:  f.LowBeamBroken,
		}
	}
	return nil
}
