package tasks

import (
	"context"
	"encoding/json"
	"time"

	"passport/internal/config"
	"passport/internal/models"
	"passport/internal/services"
	"passport/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler processes the periodic maintenance tasks
type TaskHandler struct {
	db      *gorm.DB
	logger  *logger.Logger
	archive *services.ArchiveService
	cfg     *config.Config
}

// NewTaskHandler creates a new TaskHandler. archive may be nil, in which
// case audit rows are retained instead of exported.
func NewTaskHandler(db *gorm.DB, archive *services.ArchiveService) *TaskHandler {
	return &TaskHandler{
		db:      db,
		logger:  logger.New("task_handler"),
		archive: archive,
		cfg:     config.GetConfig(),
	}
}

// HandleTokenCleanup soft-deletes auth transactions whose refresh window has
// passed. Signed tokens for those rows already fail verification; this keeps
// the active-credential table from growing without bound.
func (h *TaskHandler) HandleTokenCleanup(ctx context.Context, t *asynq.Task) error {
	result := h.db.WithContext(ctx).Model(&models.AuthTransaction{}).
		Where("expires_at < ? AND is_deleted = ?", time.Now(), false).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_deleted": true,
		})
	if result.Error != nil {
		return h.logger.Error("token cleanup failed", result.Error)
	}

	h.logger.Success("token cleanup removed %d expired transactions", result.RowsAffected)
	return nil
}

// HandleAuditArchive exports audit rows older than the retention window to
// cold storage and purges them. Without an archive service configured the
// rows stay in place.
func (h *TaskHandler) HandleAuditArchive(ctx context.Context, t *asynq.Task) error {
	if h.archive == nil {
		h.logger.Warn("audit archive skipped, no archive storage configured")
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -h.cfg.Audit.ArchiveAfterDays)

	var rows []models.AuditLog
	if err := h.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return h.logger.Error("failed to load audit rows for archive", err)
	}
	if len(rows) == 0 {
		h.logger.Info("audit archive found nothing older than %s", cutoff.Format("2006-01-02"))
		return nil
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return h.logger.Error("failed to marshal audit batch", err)
	}

	key, err := h.archive.StoreBatch(ctx, cutoff, payload)
	if err != nil {
		return err
	}

	// Purge only after the upload succeeded
	if err := h.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{}).Error; err != nil {
		return h.logger.Error("failed to purge archived audit rows", err)
	}

	h.logger.Success("archived %d audit rows to %s", len(rows), key)
	return nil
}
