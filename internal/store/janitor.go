package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Janitor sweeps st every interval until ctx is done.
func Janitor(ctx context.Context, st Store, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := st.Sweep(ctx, ttl)
			if err != nil {
				log.Warn().Err(err).Msg("sweep sessions")
				continue
			}
			if n > 0 {
				log.Debug().Int("removed", n).Msg("swept idle sessions")
			}
		}
	}
}
