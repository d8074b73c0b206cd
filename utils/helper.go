package utils

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"github.com/bsm/redislock"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func NewInt(n int) *int {
	return &n
}

// StoreLock obtains the named store-wide lock for the duration of fn.
//
// The lock is a best-effort optimization: stock correctness does not depend
// on it (stock counters are mutated with single atomic UPDATEs), it only
// reduces interleaving of journal appends from concurrent submissions.
// If Redis is unavailable or the lock cannot be obtained, fn runs anyway.
func StoreLock(ctx context.Context, lockType string, moduleName string, functionName string, fn func() error) error {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		return fn()
	}

	lock, err := locker.Obtain(ctx, lockType, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock; continuing without it", lockType, err)
		return fn()
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock; continuing without it", lockType, err)
		return fn()
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	return fn()
}
