package service

import (
	"context"
	"time"
)

// RunJanitor prunes expired uploads and idle sessions once at start and then
// every interval until ctx is cancelled.
func (s *KitchenService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *KitchenService) sweep(ctx context.Context) {
	now := s.now()
	if _, err := s.PruneUploads(ctx, now); err != nil {
		s.logger.Error("upload pruning failed", "error", err)
	}
	if _, err := s.PruneSessions(ctx, now); err != nil {
		s.logger.Error("session pruning failed", "error", err)
	}
}
