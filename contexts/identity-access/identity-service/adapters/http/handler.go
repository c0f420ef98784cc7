package httpadapter

import (
	"context"
	"log/slog"

	"caregate/contexts/identity-access/identity-service/application/commands"
	"caregate/contexts/identity-access/identity-service/application/queries"
	"caregate/contexts/identity-access/identity-service/domain/entities"
	"caregate/contexts/identity-access/identity-service/ports"
	httptransport "caregate/contexts/identity-access/identity-service/transport/http"
	"caregate/internal/shared/authz"
)

type Handler struct {
	Register      commands.RegisterUseCase
	Authenticate  commands.AuthenticateUseCase
	Logout        commands.LogoutUseCase
	UpdateProfile commands.UpdateProfileUseCase
	DeleteUser    commands.DeleteUserUseCase
	UpdateRole    commands.UpdateRoleUseCase
	GetProfile    queries.GetProfileUseCase
	ListUsers     queries.ListUsersUseCase
	Logger        *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.UserDTO, error) {
	result, err := h.Register.Execute(ctx, commands.RegisterCommand{
		Role:     authz.Role(req.Role),
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  addressFromDTO(req.Address),
		Medical:  medicalFromDTO(req.Medical),
		Provider: providerFromDTO(req.Provider),
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userToDTO(result.User), nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (ports.Assertion, error) {
	return h.Authenticate.Execute(ctx, commands.AuthenticateCommand{
		Email:    req.Email,
		Password: req.Password,
	})
}

func (h Handler) LogoutHandler(ctx context.Context, actor authz.Actor) error {
	return h.Logout.Execute(ctx, actor)
}

func (h Handler) GetProfileHandler(ctx context.Context, actor authz.Actor, userID string) (httptransport.UserDTO, error) {
	user, err := h.GetProfile.Execute(ctx, queries.GetProfileQuery{Actor: actor, UserID: userID})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userToDTO(user), nil
}

func (h Handler) UpdateProfileHandler(
	ctx context.Context,
	actor authz.Actor,
	userID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.UserDTO, error) {
	cmd := commands.UpdateProfileCommand{
		Actor:    actor,
		UserID:   userID,
		Name:     req.Name,
		Phone:    req.Phone,
		Medical:  medicalFromDTO(req.Medical),
		Provider: providerFromDTO(req.Provider),
	}
	if req.Address != nil {
		address := addressFromDTO(*req.Address)
		cmd.Address = &address
	}
	user, err := h.UpdateProfile.Execute(ctx, cmd)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userToDTO(user), nil
}

func (h Handler) DeleteUserHandler(ctx context.Context, actor authz.Actor, userID string) error {
	return h.DeleteUser.Execute(ctx, commands.DeleteUserCommand{Actor: actor, UserID: userID})
}

func (h Handler) UpdateRoleHandler(
	ctx context.Context,
	actor authz.Actor,
	userID string,
	req httptransport.UpdateRoleRequest,
) (httptransport.UserDTO, error) {
	user, err := h.UpdateRole.Execute(ctx, commands.UpdateRoleCommand{
		Actor:   actor,
		UserID:  userID,
		NewRole: authz.Role(req.Role),
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userToDTO(user), nil
}

func (h Handler) ListUsersHandler(ctx context.Context, actor authz.Actor) (httptransport.ListUsersResponse, error) {
	users, err := h.ListUsers.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	items := make([]httptransport.UserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, userToDTO(user))
	}
	return httptransport.ListUsersResponse{Users: items}, nil
}

func addressFromDTO(dto httptransport.AddressDTO) entities.Address {
	return entities.Address{
		Street:     dto.Street,
		City:       dto.City,
		State:      dto.State,
		PostalCode: dto.PostalCode,
		Country:    dto.Country,
	}
}

func medicalFromDTO(dto *httptransport.MedicalInfoDTO) *entities.MedicalInfo {
	if dto == nil {
		return nil
	}
	return &entities.MedicalInfo{
		DateOfBirth:    dto.DateOfBirth,
		BloodType:      dto.BloodType,
		Allergies:      dto.Allergies,
		MedicalHistory: dto.MedicalHistory,
	}
}

func providerFromDTO(dto *httptransport.ProviderInfoDTO) *entities.ProviderInfo {
	if dto == nil {
		return nil
	}
	return &entities.ProviderInfo{
		Specialization: dto.Specialization,
		ClinicName:     dto.ClinicName,
		LicenseNumber:  dto.LicenseNumber,
	}
}

func userToDTO(user entities.User) httptransport.UserDTO {
	dto := httptransport.UserDTO{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      string(user.Role),
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if !user.Address.IsZero() {
		dto.Address = &httptransport.AddressDTO{
			Street:     user.Address.Street,
			City:       user.Address.City,
			State:      user.Address.State,
			PostalCode: user.Address.PostalCode,
			Country:    user.Address.Country,
		}
	}
	if user.Medical != nil {
		dto.Medical = &httptransport.MedicalInfoDTO{
			DateOfBirth:    user.Medical.DateOfBirth,
			BloodType:      user.Medical.BloodType,
			Allergies:      user.Medical.Allergies,
			MedicalHistory: user.Medical.MedicalHistory,
		}
	}
	if user.Provider != nil {
		dto.Provider = &httptransport.ProviderInfoDTO{
			Specialization: user.Provider.Specialization,
			ClinicName:     user.Provider.ClinicName,
			LicenseNumber:  user.Provider.LicenseNumber,
		}
	}
	return dto
}
