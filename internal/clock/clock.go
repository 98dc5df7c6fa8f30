package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time for snapshot expiry and metadata timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func provideSystemClock() Clock {
	return SystemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(provideSystemClock),
)
