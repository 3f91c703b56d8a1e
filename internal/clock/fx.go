package clock

import "go.uber.org/fx"

// Provide returns the wall clock used outside of tests.
func Provide() Clock { return SystemClock{} }

var Module = fx.Module("clock",
	fx.Provide(Provide),
)
