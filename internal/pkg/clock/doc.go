// Package clock provides a tiny time abstraction.
//
// Timer arithmetic depends on the Clocker interface instead of calling
// time.Now() directly. Production wiring uses TimeClocker; tests use Manual
// and advance it explicitly, so elapsed-time assertions never sleep.
package clock
