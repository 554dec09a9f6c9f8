package tracker

import "errors"

// Errores pre-flight del core: cortan ANTES de cualquier I/O y nunca se
// reportan como errores del store.
var (
	// ErrRecordingInFlight: ya hay un registro en vuelo para ese
	// medicamento. Los callers lo tratan como no-op silencioso.
	ErrRecordingInFlight = errors.New("dose recording already in flight")

	// ErrFutureDay: no se registran dosis para días futuros.
	ErrFutureDay = errors.New("cannot record doses for future dates")

	// ErrMaxDoses: el contador local ya llegó al máximo diario.
	ErrMaxDoses = errors.New("maximum daily doses already taken")

	// ErrExplicitTimeRequired: un día pasado exige hora HH:MM explícita.
	ErrExplicitTimeRequired = errors.New("past dates require an explicit HH:MM time")

	// ErrPullInFlight: ya hay un pull del resumen en vuelo para ese día.
	ErrPullInFlight = errors.New("summary pull already in flight")
)
