package httptransport

import "time"

type AddressDTO struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type MedicalInfoDTO struct {
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	BloodType      string     `json:"blood_type,omitempty"`
	Allergies      []string   `json:"allergies,omitempty"`
	MedicalHistory []string   `json:"medical_history,omitempty"`
}

type ProviderInfoDTO struct {
	Specialization string `json:"specialization,omitempty"`
	ClinicName     string `json:"clinic_name,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
}

type RegisterRequest struct {
	Role     string           `json:"role"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	Address  AddressDTO       `json:"address,omitempty"`
	Medical  *MedicalInfoDTO  `json:"medical_info,omitempty"`
	Provider *ProviderInfoDTO `json:"provider_info,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the public identity of the
// authenticated user.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UpdateProfileRequest struct {
	Name     *string          `json:"name,omitempty"`
	Phone    *string          `json:"phone,omitempty"`
	Address  *AddressDTO      `json:"address,omitempty"`
	Medical  *MedicalInfoDTO  `json:"medical_info,omitempty"`
	Provider *ProviderInfoDTO `json:"provider_info,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UserDTO struct {
	UserID    string           `json:"user_id"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Name      string           `json:"name"`
	Phone     string           `json:"phone"`
	Address   *AddressDTO      `json:"address,omitempty"`
	Medical   *MedicalInfoDTO  `json:"medical_info,omitempty"`
	Provider  *ProviderInfoDTO `json:"provider_info,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
