package tracker

import (
	"fmt"
	"time"
)

// DayKey identifica un día calendario local en formato YYYY-MM-DD.
// Dos keys se comparan por orden lexicográfico, nunca por instante.
type DayKey string

const dayKeyLayout = "2006-01-02"

func (k DayKey) String() string { return string(k) }

func (k DayKey) Before(other DayKey) bool { return string(k) < string(other) }

func (k DayKey) After(other DayKey) bool { return string(k) > string(other) }

// LocalDayKey construye la key desde los componentes LOCALES de t
// (su propia Location), nunca desde la representación UTC: un instante
// a las 23:30 locales queda en el día local correcto aunque su fecha
// UTC sea otra. Pura y total para cualquier time.Time válido.
func LocalDayKey(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// TodayKey es la key del día actual del viewer según el Clock.
func TodayKey(c Clock) DayKey {
	return LocalDayKey(c.Now())
}

// ParseDayKey valida una key recibida de afuera (rutas, inputs).
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: must be YYYY-MM-DD", s)
	}
	return LocalDayKey(t), nil
}

// Date devuelve la medianoche local del día en loc (para render y rangos).
func (k DayKey) Date(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, string(k), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q", string(k))
	}
	return t, nil
}
