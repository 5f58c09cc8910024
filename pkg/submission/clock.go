package submission

import "time"

// Clock abstracts time so retry and backoff behavior is deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
