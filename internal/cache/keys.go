package cache

import (
	"fmt"
	"time"
)

// RateLimitKey returns the counter key for clientID in the fixed one-minute window containing now.
func RateLimitKey(clientID string, now time.Time) string {
	return fmt.Sprintf("verta:ratelimit:%s:%d", clientID, now.Unix()/60)
}
