package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"caregate/contexts/identity-access/identity-service/domain/entities"
	domainerrors "caregate/contexts/identity-access/identity-service/domain/errors"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/shared/authz"
)

// Repository is the durable user store. Name, phone, address and the
// medical payload are sealed before they touch a row; email stays in
// clear because the unique constraint and login lookup need it.
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

// Migrate registers the user schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{})
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row, err := r.sealUser(user)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return r.openUser(row)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return r.openUser(row)
}

func (r *Repository) UpdateUser(ctx context.Context, user entities.User) error {
	row, err := r.sealUser(user)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("user_id = ?", user.UserID).
		Select("*").Omit("user_id", "created_at").
		Updates(row)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domainerrors.ErrEmailTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Delete(&userModel{}, "user_id = ?", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC, user_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		user, err := r.openUser(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *Repository) sealUser(user entities.User) (userModel, error) {
	nameSealed, err := r.cipher.Seal([]byte(user.Name))
	if err != nil {
		return userModel{}, err
	}
	phoneSealed, err := r.cipher.Seal([]byte(user.Phone))
	if err != nil {
		return userModel{}, err
	}
	addressJSON, err := json.Marshal(user.Address)
	if err != nil {
		return userModel{}, err
	}
	addressSealed, err := r.cipher.Seal(addressJSON)
	if err != nil {
		return userModel{}, err
	}

	var medicalSealed []byte
	if user.Medical != nil {
		medicalJSON, err := json.Marshal(user.Medical)
		if err != nil {
			return userModel{}, err
		}
		medicalSealed, err = r.cipher.Seal(medicalJSON)
		if err != nil {
			return userModel{}, err
		}
	}

	row := userModel{
		UserID:         user.UserID,
		Email:          user.Email,
		Role:           string(user.Role),
		NameSealed:     nameSealed,
		PhoneSealed:    phoneSealed,
		AddressSealed:  addressSealed,
		MedicalSealed:  medicalSealed,
		CredentialHash: user.CredentialHash,
		CreatedAt:      user.CreatedAt.UTC(),
		UpdatedAt:      user.UpdatedAt.UTC(),
	}
	if user.Provider != nil {
		row.Specialization = user.Provider.Specialization
		row.ClinicName = user.Provider.ClinicName
		row.LicenseNumber = user.Provider.LicenseNumber
	}
	return row, nil
}

func (r *Repository) openUser(row userModel) (entities.User, error) {
	name, err := r.cipher.Open(row.NameSealed)
	if err != nil {
		return entities.User{}, err
	}
	phone, err := r.cipher.Open(row.PhoneSealed)
	if err != nil {
		return entities.User{}, err
	}
	addressJSON, err := r.cipher.Open(row.AddressSealed)
	if err != nil {
		return entities.User{}, err
	}
	var address entities.Address
	if err := json.Unmarshal(addressJSON, &address); err != nil {
		return entities.User{}, err
	}

	var medical *entities.MedicalInfo
	if len(row.MedicalSealed) > 0 {
		medicalJSON, err := r.cipher.Open(row.MedicalSealed)
		if err != nil {
			return entities.User{}, err
		}
		medical = &entities.MedicalInfo{}
		if err := json.Unmarshal(medicalJSON, medical); err != nil {
			return entities.User{}, err
		}
	}

	user := entities.User{
		UserID:         row.UserID,
		Email:          row.Email,
		Role:           authz.Role(row.Role),
		Name:           string(name),
		Phone:          string(phone),
		Address:        address,
		Medical:        medical,
		CredentialHash: row.CredentialHash,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
	if row.Specialization != "" || row.ClinicName != "" || row.LicenseNumber != "" {
		user.Provider = &entities.ProviderInfo{
			Specialization: row.Specialization,
			ClinicName:     row.ClinicName,
			LicenseNumber:  row.LicenseNumber,
		}
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type userModel struct {
	UserID         string    `gorm:"column:user_id;primaryKey"`
	Email          string    `gorm:"column:email;uniqueIndex"`
	Role           string    `gorm:"column:role;index"`
	NameSealed     []byte    `gorm:"column:name_sealed"`
	PhoneSealed    []byte    `gorm:"column:phone_sealed"`
	AddressSealed  []byte    `gorm:"column:address_sealed"`
	MedicalSealed  []byte    `gorm:"column:medical_sealed"`
	Specialization string    `gorm:"column:specialization"`
	ClinicName     string    `gorm:"column:clinic_name"`
	LicenseNumber  string    `gorm:"column:license_number"`
	CredentialHash string    `gorm:"column:credential_hash"`
	CreatedAt      time.Time `gorm:"column:created_at;index"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }
