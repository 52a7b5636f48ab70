package memory

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

type AuditLogRepository struct {
	s  *Store
	tx bool // WithinTx の中から使うとき true
}

func (r *AuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	defer r.s.lockWrite(r.tx)()

	log.ID = r.s.nextAuditID
	r.s.nextAuditID++
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

// gorm版と同じく新しい順・limitは既定50
func (r *AuditLogRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.AuditLog{}
	skipped := 0
	for i := len(r.s.auditLogs) - 1; i >= 0 && len(out) < limit; i-- {
		l := r.s.auditLogs[i]
		if !matchAudit(l, f) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func matchAudit(l model.AuditLog, f repo.AuditLogFilter) bool {
	if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
		return false
	}
	if f.Action != nil && l.Action != *f.Action {
		return false
	}
	if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
		return false
	}
	if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
		return false
	}
	if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}
