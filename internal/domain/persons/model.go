package persons

import (
	"strings"
	"time"
)

// Person representa a una persona cuyas medicaciones se trackean.
// Exactamente una persona es default en todo momento; el servicio hace
// cumplir la invariante en Create/Delete/SetDefault.
type Person struct {
	ID string

	FirstName string
	LastName  string

	DateOfBirth *time.Time
	Notes       string

	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Name compone el nombre a mostrar.
func (p Person) Name() string {
	if strings.TrimSpace(p.LastName) == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
