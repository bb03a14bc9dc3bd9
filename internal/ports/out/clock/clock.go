package clock

import "time"

// Clock provides the current time. Ban expiry checks read it once per call.
type Clock interface {
	Now() time.Time
}
