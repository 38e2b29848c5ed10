package services

import (
	"encoding/json"
	"sync"
	"time"

	"moltbook/internal/metrics"
	"moltbook/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Audit actions recorded by this service.
const (
	AuditVoteApply     = "votes.apply"
	AuditPostCreate    = "posts.create"
	AuditPostDelete    = "posts.delete"
	AuditCommentCreate = "comments.create"
	AuditCommentDelete = "comments.delete"
)

const (
	auditQueueSize  = 1000
	auditBatchSize  = 50
	auditFlushEvery = 500 * time.Millisecond
)

// AuditService persists audit records from a background worker. Recording
// never blocks a request, and a failed write never affects the action that
// was audited.
type AuditService struct {
	db     *gorm.DB
	logger *zap.Logger

	queue     chan models.AuditLog
	done      chan struct{}
	closeOnce sync.Once
}

func NewAuditService(db *gorm.DB, logger *zap.Logger) *AuditService {
	s := &AuditService{
		db:     db,
		logger: logger,
		queue:  make(chan models.AuditLog, auditQueueSize),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

// Record queues an audit entry. When the queue is full the entry is
// dropped and counted rather than blocking the caller.
func (s *AuditService) Record(actorID, action string, metadata map[string]interface{}) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		raw = []byte("{}")
	}
	entry := models.AuditLog{
		ID:           models.NewID(),
		ActorAgentID: actorID,
		Action:       action,
		Metadata:     string(raw),
	}
	select {
	case s.queue <- entry:
	default:
		metrics.AuditDropped.Inc()
		s.logger.Warn("audit queue full, dropping record", zap.String("action", action))
	}
}

// worker batches queued records: a full batch flushes immediately, a
// ticker flushes stragglers.
func (s *AuditService) worker() {
	batch := make([]models.AuditLog, 0, auditBatchSize)
	ticker := time.NewTicker(auditFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-s.queue:
			if !ok {
				s.flush(batch)
				close(s.done)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= auditBatchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *AuditService) flush(batch []models.AuditLog) {
	if len(batch) == 0 {
		return
	}
	if err := s.db.CreateInBatches(batch, auditBatchSize).Error; err != nil {
		s.logger.Error("audit batch insert failed",
			zap.Int("records", len(batch)),
			zap.Error(err))
	}
}

// Close flushes queued records and stops the worker.
func (s *AuditService) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	<-s.done
}
