package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogModel struct {
	AuditID    string    `gorm:"column:audit_id;primaryKey"`
	EntityType string    `gorm:"column:entity_type"`
	EntityID   string    `gorm:"column:entity_id"`
	Action     string    `gorm:"column:action"`
	RecordedAt time.Time `gorm:"column:recorded_at"`
}

func (auditLogModel) TableName() string {
	return "audit_logs"
}

// Recorder persists one audit row per business action. A nil DB degrades
// to log-only recording, which the worker smoke profile uses.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		db:     db,
		logger: logger,
	}
}

func (r *Recorder) Record(ctx context.Context, entityType string, entityID string, action string) error {
	recordedAt := time.Now().UTC()

	if r.db != nil {
		row := auditLogModel{
			AuditID:    uuid.NewString(),
			EntityType: entityType,
			EntityID:   entityID,
			Action:     action,
			RecordedAt: recordedAt,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}

	r.logger.Info("audit action recorded",
		"event", "audit_recorded",
		"module", "internal/platform/audit",
		"layer", "platform",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
	)
	return nil
}
