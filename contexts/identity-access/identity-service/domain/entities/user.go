package entities

import (
	"regexp"
	"strings"
	"time"

	"caregate/internal/shared/authz"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^(?:\+234|234|0)[789][01]\d{8}$`)
)

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// MedicalInfo is the patient-specific payload.
type MedicalInfo struct {
	DateOfBirth    *time.Time
	BloodType      string
	Allergies      []string
	MedicalHistory []string
}

var knownBloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

func (m MedicalInfo) Valid() bool {
	return m.BloodType == "" || knownBloodTypes[m.BloodType]
}

// ProviderInfo is the provider-specific payload.
type ProviderInfo struct {
	Specialization string
	ClinicName     string
	LicenseNumber  string
}

// User is an identity record. Exactly one of Medical/Provider may be
// set, and only when it matches Role; NormalizePayload enforces that on
// every write path.
type User struct {
	UserID         string
	Email          string
	Role           authz.Role
	Name           string
	Phone          string
	Address        Address
	Medical        *MedicalInfo
	Provider       *ProviderInfo
	CredentialHash string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizePayload discards any role-specific payload that does not
// match the user's role, so a patient record can never carry provider
// fields.
func (u *User) NormalizePayload() {
	if u.Role != authz.RolePatient {
		u.Medical = nil
	}
	if u.Role != authz.RoleProvider {
		u.Provider = nil
	}
}

// Owners returns the authorization owner set for this record.
func (u User) Owners() []string {
	return []string{u.UserID}
}

// WithoutCredential strips the credential hash before the record leaves
// the application layer.
func (u User) WithoutCredential() User {
	u.CredentialHash = ""
	return u
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}
