package tracker

// DayClass clasifica un día objetivo contra "hoy".
type DayClass int

const (
	DayPast DayClass = iota
	DayToday
	DayFuture
)

func (c DayClass) String() string {
	switch c {
	case DayPast:
		return "past"
	case DayToday:
		return "today"
	case DayFuture:
		return "future"
	default:
		return "unknown"
	}
}

// RecordingMode es el modo de registro permitido para una clase de día.
type RecordingMode int

const (
	// ModeImmediate: el store estampa el instante actual. Solo para hoy;
	// hoy también admite hora explícita si el caller la provee.
	ModeImmediate RecordingMode = iota
	// ModeExplicit: el caller DEBE proveer una hora HH:MM (días pasados).
	ModeExplicit
	// ModeForbidden: no se emite ninguna llamada de red (días futuros).
	ModeForbidden
)

func (m RecordingMode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeExplicit:
		return "explicit"
	case ModeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Classify compara day keys por igualdad/orden de strings — nunca por
// instantes, que sería incorrecto entre offsets distintos. Esta función
// es la única fuente de verdad de qué significa "un día" para badges,
// labels y elegibilidad de registro; duplicarla en otro lado es un bug.
func Classify(target, today DayKey) DayClass {
	switch {
	case target == today:
		return DayToday
	case target.Before(today):
		return DayPast
	default:
		return DayFuture
	}
}

// ModeFor deriva el modo de registro de una clase de día.
func ModeFor(class DayClass) RecordingMode {
	switch class {
	case DayToday:
		return ModeImmediate
	case DayPast:
		return ModeExplicit
	default:
		return ModeForbidden
	}
}
