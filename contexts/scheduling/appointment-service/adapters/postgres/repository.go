package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"caregate/contexts/scheduling/appointment-service/domain/entities"
	domainerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
	"caregate/internal/platform/fieldcipher"
)

// Repository is the durable appointment store. Notes are sealed at
// rest. The double-booking race is closed by a composite unique index
// over (provider_id, scheduled_at, active_slot): active rows carry
// active_slot=true, terminal rows carry NULL, and postgres unique
// indexes ignore NULLs, so at most one active row can hold a slot.
type Repository struct {
	db     *gorm.DB
	cipher *fieldcipher.Cipher
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, cipher *fieldcipher.Cipher, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, cipher: cipher, logger: logger}
}

// Migrate registers the appointment schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&appointmentModel{})
}

func (r *Repository) CreateAppointment(ctx context.Context, appt entities.Appointment) error {
	row, err := r.sealAppointment(appt)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrSchedulingConflict
		}
		return err
	}
	return nil
}

func (r *Repository) GetAppointment(ctx context.Context, appointmentID string) (entities.Appointment, error) {
	var row appointmentModel
	err := r.db.WithContext(ctx).First(&row, "appointment_id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Appointment{}, domainerrors.ErrAppointmentNotFound
		}
		return entities.Appointment{}, err
	}
	return r.openAppointment(row)
}

func (r *Repository) UpdateAppointment(ctx context.Context, appt entities.Appointment) error {
	row, err := r.sealAppointment(appt)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&appointmentModel{}).
		Where("appointment_id = ?", appt.AppointmentID).
		Select("*").Omit("appointment_id", "created_at").
		Updates(row)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domainerrors.ErrSchedulingConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrAppointmentNotFound
	}
	return nil
}

func (r *Repository) ListByProvider(ctx context.Context, providerID string) ([]entities.Appointment, error) {
	return r.list(ctx, "provider_id = ?", providerID)
}

func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]entities.Appointment, error) {
	return r.list(ctx, "patient_id = ?", patientID)
}

func (r *Repository) list(ctx context.Context, cond string, arg string) ([]entities.Appointment, error) {
	var rows []appointmentModel
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("scheduled_at ASC, appointment_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Appointment, 0, len(rows))
	for _, row := range rows {
		appt, err := r.openAppointment(row)
		if err != nil {
			return nil, err
		}
		items = append(items, appt)
	}
	return items, nil
}

func (r *Repository) HasActiveSlot(ctx context.Context, providerID string, at time.Time, excludeID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&appointmentModel{}).
		Where("provider_id = ? AND scheduled_at = ? AND active_slot IS NOT NULL", providerID, at.UTC())
	if excludeID != "" {
		tx = tx.Where("appointment_id <> ?", excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) sealAppointment(appt entities.Appointment) (appointmentModel, error) {
	notesSealed, err := r.cipher.Seal([]byte(appt.Notes))
	if err != nil {
		return appointmentModel{}, err
	}

	row := appointmentModel{
		AppointmentID: appt.AppointmentID,
		PatientID:     appt.PatientID,
		ProviderID:    appt.ProviderID,
		ScheduledAt:   appt.ScheduledAt.UTC(),
		Status:        string(appt.Status),
		NotesSealed:   notesSealed,
		CreatedAt:     appt.CreatedAt.UTC(),
		UpdatedAt:     appt.UpdatedAt.UTC(),
	}
	if appt.Status.Active() {
		active := true
		row.ActiveSlot = &active
	}
	return row, nil
}

func (r *Repository) openAppointment(row appointmentModel) (entities.Appointment, error) {
	notes, err := r.cipher.Open(row.NotesSealed)
	if err != nil {
		return entities.Appointment{}, err
	}
	return entities.Appointment{
		AppointmentID: row.AppointmentID,
		PatientID:     row.PatientID,
		ProviderID:    row.ProviderID,
		ScheduledAt:   row.ScheduledAt.UTC(),
		Status:        entities.Status(row.Status),
		Notes:         string(notes),
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type appointmentModel struct {
	AppointmentID string    `gorm:"column:appointment_id;primaryKey"`
	PatientID     string    `gorm:"column:patient_id;index"`
	ProviderID    string    `gorm:"column:provider_id;index;uniqueIndex:uq_provider_slot"`
	ScheduledAt   time.Time `gorm:"column:scheduled_at;uniqueIndex:uq_provider_slot"`
	Status        string    `gorm:"column:status;index"`
	ActiveSlot    *bool     `gorm:"column:active_slot;uniqueIndex:uq_provider_slot"`
	NotesSealed   []byte    `gorm:"column:notes_sealed"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (appointmentModel) TableName() string { return "appointments" }
