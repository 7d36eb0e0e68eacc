package clock

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock abstrae la hora actual para que el cálculo de vencimientos sea testeable.
type Clock interface {
	Now() time.Time
}

// RealClock usa la hora local del sistema: "hoy" es el día del usuario, no el de UTC.
type RealClock struct{}

// Now devuelve la hora actual.
func (RealClock) Now() time.Time { return time.Now() }

// FakeClock reloj controlable para tests.
type FakeClock struct {
	now time.Time
}

// NewFake crea un FakeClock fijado en t.
func NewFake(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now devuelve la hora fijada.
func (f *FakeClock) Now() time.Time { return f.now }

// Set fija el reloj en t.
func (f *FakeClock) Set(t time.Time) { f.now = t }

// Advance adelanta el reloj d.
func (f *FakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

// Today devuelve la fecha civil actual según c.
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}
