package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const notifyTimeout = 15 * time.Second

// sendNotice runs send on its own goroutine, detached from ctx's
// cancellation and bounded by notifyTimeout. Failures are logged.
func sendNotice(ctx context.Context, log zerolog.Logger, userID int64, kind string, send func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Str("notice", kind).Msg("failed to send notice")
		}
	}()
}
