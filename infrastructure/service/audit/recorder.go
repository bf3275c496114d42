package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

const writeTimeout = 5 * time.Second

// Recorder writes audit entries in the background. A failed write never
// surfaces to the caller: the primary action has already succeeded and must
// not be rolled back over a missing audit row.
type Recorder struct {
	repo   outbound.AuditRepository
	logger logger.Logger
	wg     sync.WaitGroup
}

func NewRecorder(repo outbound.AuditRepository, log logger.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: log,
	}
}

// Record queues the entry for an asynchronous write. The write uses its own
// context so a cancelled request does not abort it.
func (r *Recorder) Record(ctx context.Context, entry *entity.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	cid := logger.CorrelationIDFromContext(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		writeCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		writeCtx = logger.ContextWithCorrelationID(writeCtx, cid)

		if err := r.repo.Append(writeCtx, entry); err != nil {
			r.logger.Warn(writeCtx, "Audit write failed", map[string]interface{}{
				"action":    entry.Action,
				"table":     entry.TableName,
				"record_id": entry.RecordID,
				"actor_id":  entry.ActorID,
				"error":     err.Error(),
			})
		}
	}()
}

// Wait blocks until all queued writes finish. Called on shutdown and by tests.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
