package storage

import (
	"context"

	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
)

// AuditRepository persists and reads the audit trail.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "audit.create", "failed to create audit log", err)
	}
	return nil
}

// List returns one page of audit entries, newest first, plus the total count.
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "audit.count", "failed to count audit logs", err)
	}

	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "audit.list", "failed to list audit logs", err)
	}
	return logs, total, nil
}
