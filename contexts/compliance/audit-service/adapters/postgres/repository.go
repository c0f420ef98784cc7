package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"caregate/contexts/compliance/audit-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Migrate registers the audit schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&auditEntryModel{})
}

func (r *Repository) AppendEntry(ctx context.Context, entry ports.SealedEntry) error {
	row := auditEntryModel{
		EntryID:       entry.EntryID,
		ActorID:       entry.ActorID,
		Action:        entry.Action,
		SealedDetails: append([]byte(nil), entry.SealedDetails...),
		RecordedAt:    entry.RecordedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListEntries(ctx context.Context, filter ports.QueryFilter) ([]ports.SealedEntry, error) {
	tx := r.db.WithContext(ctx).Model(&auditEntryModel{})
	if filter.ActorID != "" {
		tx = tx.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		tx = tx.Where("recorded_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		tx = tx.Where("recorded_at <= ?", filter.To.UTC())
	}

	var rows []auditEntryModel
	if err := tx.Order("recorded_at DESC, entry_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ports.SealedEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.SealedEntry{
			EntryID:       row.EntryID,
			ActorID:       row.ActorID,
			Action:        row.Action,
			SealedDetails: append([]byte(nil), row.SealedDetails...),
			RecordedAt:    row.RecordedAt.UTC(),
		})
	}
	return items, nil
}

// auditEntryModel is append-only; no update or delete path exists in
// this adapter.
type auditEntryModel struct {
	EntryID       string    `gorm:"column:entry_id;primaryKey"`
	ActorID       string    `gorm:"column:actor_id;index"`
	Action        string    `gorm:"column:action;index:idx_audit_action_recorded"`
	SealedDetails []byte    `gorm:"column:sealed_details"`
	RecordedAt    time.Time `gorm:"column:recorded_at;index;index:idx_audit_action_recorded"`
}

func (auditEntryModel) TableName() string { return "audit_entries" }
