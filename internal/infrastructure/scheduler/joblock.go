package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"krona/internal/shared/logger"
)

const lockKeyPrefix = "krona:jobs:"

// JobLock is a best-effort distributed lease over redis. It keeps multiple
// instances from running the same batch job at once; the TTL bounds how long
// a crashed holder can block the next run.
type JobLock struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewJobLock(client *redis.Client, ttl time.Duration, log logger.Interface) *JobLock {
	return &JobLock{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Acquire tries to take the lease for the named job. It returns a release
// function and true on success, or false when another instance holds it.
func (l *JobLock) Acquire(ctx context.Context, jobName string) (func(), bool) {
	if l.client == nil {
		// No redis configured means single-instance deployment; run freely.
		return func() {}, true
	}

	key := lockKeyPrefix + jobName
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		// Redis being down should not stop maintenance jobs.
		l.logger.Warnw("job lock unavailable, running without lease",
			"job", jobName, "error", err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}

	release := func() {
		// Only the holder's token may delete the lease.
		script := redis.NewScript(`
			if redis.call('GET', KEYS[1]) == ARGV[1] then
				return redis.call('DEL', KEYS[1])
			end
			return 0
		`)
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := script.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			l.logger.Warnw("failed to release job lock", "job", jobName, "error", err)
		}
	}
	return release, true
}
