package output

import (
	"context"
	"time"
)

// Locker grants a best-effort exclusive lease on key for ttl.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, ok bool, err error)
}
