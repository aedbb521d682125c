package jobs

import (
	"context"

	"github.com/birddog/teddy/internal/chat"
	"github.com/birddog/teddy/pkg/logger"
)

// ConversationCleanupJob sweeps idle demo conversations out of the
// in-memory chat store.
type ConversationCleanupJob struct {
	store  *chat.Store
	logger *logger.Logger
}

// NewConversationCleanupJob creates the cleanup job.
func NewConversationCleanupJob(store *chat.Store, log *logger.Logger) *ConversationCleanupJob {
	return &ConversationCleanupJob{store: store, logger: log}
}

func (j *ConversationCleanupJob) Name() string {
	return "conversation_cleanup"
}

// Schedule runs every 15 minutes.
func (j *ConversationCleanupJob) Schedule() string {
	return "0 */15 * * * *"
}

func (j *ConversationCleanupJob) Run(ctx context.Context) error {
	removed := j.store.Sweep()
	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed":   removed,
			"remaining": j.store.Len(),
		}).Info("Stale conversations removed")
	}
	return nil
}
