package geocode

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can skip the politeness
// delay between geocode tiers without waiting on a real timer.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock swaps the time source for the resolver. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
