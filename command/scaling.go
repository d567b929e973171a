package command

// Scaling conversions for ReadInstantValue fields.
// The catalog stores raw integers; these are pure functions callers apply
// when they want engineering units.

func Volts(raw uint16) float64 { return float64(raw) / 100.0 }

func Amperes(raw uint32) float64 { return float64(raw) / 1000.0 }

func Hertz(raw uint16) float64 { return float64(raw) / 100.0 }

// KilowattsTransition converts a Transition-generation power field
// (kW·10⁻²).
func KilowattsTransition(raw uint16) float64 { return float64(raw) / 100.0 }

// KilowattsNew converts a New-generation power field (kW·10⁻³).
func KilowattsNew(raw uint32) float64 { return float64(raw) / 1000.0 }
