package httpadapter

import (
	"context"
	"log/slog"

	"caregate/contexts/scheduling/appointment-service/application/commands"
	"caregate/contexts/scheduling/appointment-service/application/queries"
	"caregate/contexts/scheduling/appointment-service/domain/entities"
	httptransport "caregate/contexts/scheduling/appointment-service/transport/http"
	"caregate/internal/shared/authz"
)

type Handler struct {
	Create commands.CreateAppointmentUseCase
	Update commands.UpdateAppointmentUseCase
	Cancel commands.CancelAppointmentUseCase
	Get    queries.GetAppointmentUseCase
	List   queries.ListAppointmentsUseCase
	Logger *slog.Logger
}

func (h Handler) CreateAppointmentHandler(
	ctx context.Context,
	actor authz.Actor,
	req httptransport.CreateAppointmentRequest,
) (httptransport.AppointmentDTO, error) {
	appt, err := h.Create.Execute(ctx, commands.CreateAppointmentCommand{
		Actor:       actor,
		PatientID:   req.PatientID,
		ProviderID:  req.ProviderID,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.AppointmentDTO{}, err
	}
	return appointmentToDTO(appt), nil
}

func (h Handler) GetAppointmentHandler(ctx context.Context, actor authz.Actor, appointmentID string) (httptransport.AppointmentDTO, error) {
	appt, err := h.Get.Execute(ctx, queries.GetAppointmentQuery{Actor: actor, AppointmentID: appointmentID})
	if err != nil {
		return httptransport.AppointmentDTO{}, err
	}
	return appointmentToDTO(appt), nil
}

func (h Handler) UpdateAppointmentHandler(
	ctx context.Context,
	actor authz.Actor,
	appointmentID string,
	req httptransport.UpdateAppointmentRequest,
) (httptransport.AppointmentDTO, error) {
	cmd := commands.UpdateAppointmentCommand{
		Actor:         actor,
		AppointmentID: appointmentID,
		ScheduledAt:   req.ScheduledAt,
		Notes:         req.Notes,
	}
	if req.Status != nil {
		status := entities.Status(*req.Status)
		cmd.Status = &status
	}
	appt, err := h.Update.Execute(ctx, cmd)
	if err != nil {
		return httptransport.AppointmentDTO{}, err
	}
	return appointmentToDTO(appt), nil
}

func (h Handler) CancelAppointmentHandler(ctx context.Context, actor authz.Actor, appointmentID string) (httptransport.AppointmentDTO, error) {
	appt, err := h.Cancel.Execute(ctx, commands.CancelAppointmentCommand{Actor: actor, AppointmentID: appointmentID})
	if err != nil {
		return httptransport.AppointmentDTO{}, err
	}
	return appointmentToDTO(appt), nil
}

func (h Handler) ListByProviderHandler(ctx context.Context, actor authz.Actor, providerID string) (httptransport.ListAppointmentsResponse, error) {
	items, err := h.List.ByProvider(ctx, queries.ListByProviderQuery{Actor: actor, ProviderID: providerID})
	if err != nil {
		return httptransport.ListAppointmentsResponse{}, err
	}
	return listToDTO(items), nil
}

func (h Handler) ListByPatientHandler(ctx context.Context, actor authz.Actor, patientID string) (httptransport.ListAppointmentsResponse, error) {
	items, err := h.List.ByPatient(ctx, queries.ListByPatientQuery{Actor: actor, PatientID: patientID})
	if err != nil {
		return httptransport.ListAppointmentsResponse{}, err
	}
	return listToDTO(items), nil
}

func appointmentToDTO(appt entities.Appointment) httptransport.AppointmentDTO {
	return httptransport.AppointmentDTO{
		AppointmentID: appt.AppointmentID,
		PatientID:     appt.PatientID,
		ProviderID:    appt.ProviderID,
		ScheduledAt:   appt.ScheduledAt,
		Status:        string(appt.Status),
		Notes:         appt.Notes,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}
}

func listToDTO(items []entities.Appointment) httptransport.ListAppointmentsResponse {
	dtos := make([]httptransport.AppointmentDTO, 0, len(items))
	for _, appt := range items {
		dtos = append(dtos, appointmentToDTO(appt))
	}
	return httptransport.ListAppointmentsResponse{Appointments: dtos}
}
