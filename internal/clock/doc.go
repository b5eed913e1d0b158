// Package clock provides the time source used everywhere testh records timing.
//
// The System clock reads time.Now, whose monotonic component makes
// subtraction immune to wall-clock adjustments. Fake is a deterministic
// clock for tests and golden output.
//
// Classify maps a measured duration onto the display unit used by the
// console report:
//
//	d < 9.9µs  -> ns
//	d < 9.9ms  -> μs
//	otherwise  -> ms
package clock
