package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/beststarli/double-token-demo/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Start periodically deletes expired refresh token rows until ctx is
// cancelled. Revoked-but-unexpired rows stay: revocation state must remain
// queryable for the token's whole lifetime.
func Start(ctx context.Context, repo ExpiredDeleter, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Error("refresh token cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				metrics.ExpiredTokensDeleted.Add(float64(deleted))
				log.Info("refresh token cleanup", zap.Int64("deleted", deleted))
			}
		}
	}
}
