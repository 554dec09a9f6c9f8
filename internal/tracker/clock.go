package tracker

import "time"

// Clock provee "ahora". La zona del viewer viaja en la Location del
// time.Time devuelto; el resto del core no toca time.Now directamente,
// lo que hace el comportamiento de borde de día testeable sin hacks.
type Clock interface {
	Now() time.Time
}

// SystemClock usa el reloj del sistema (producción).
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock devuelve siempre el mismo instante (tests).
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// OffsetMinutes devuelve el offset local de t en minutos al este de UTC,
// con signo (UTC-5 => -300, UTC+8 => 480).
func OffsetMinutes(t time.Time) int {
	_, secs := t.Zone()
	return secs / 60
}

// OffsetForRequest es el offset que se reenvía al store en cada
// lectura/escritura para que agrupe las dosis por el día del viewer.
func OffsetForRequest(c Clock) int {
	return OffsetMinutes(c.Now())
}
