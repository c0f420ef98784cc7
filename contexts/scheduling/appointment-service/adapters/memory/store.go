package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"caregate/contexts/scheduling/appointment-service/domain/entities"
	domainerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
)

// Store is the in-memory appointment repository used by tests and local
// wiring. The mutex serializes the slot check with the save, which is
// what the durable adapter's unique constraint gives it.
type Store struct {
	mu           sync.RWMutex
	appointments map[string]entities.Appointment

	NowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{appointments: make(map[string]entities.Appointment)}
}

func (s *Store) CreateAppointment(_ context.Context, appt entities.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appt.Status.Active() && s.slotTaken(appt.ProviderID, appt.ScheduledAt, appt.AppointmentID) {
		return domainerrors.ErrSchedulingConflict
	}
	s.appointments[appt.AppointmentID] = appt
	return nil
}

func (s *Store) GetAppointment(_ context.Context, appointmentID string) (entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[appointmentID]
	if !ok {
		return entities.Appointment{}, domainerrors.ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *Store) UpdateAppointment(_ context.Context, appt entities.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[appt.AppointmentID]; !ok {
		return domainerrors.ErrAppointmentNotFound
	}
	if appt.Status.Active() && s.slotTaken(appt.ProviderID, appt.ScheduledAt, appt.AppointmentID) {
		return domainerrors.ErrSchedulingConflict
	}
	s.appointments[appt.AppointmentID] = appt
	return nil
}

func (s *Store) ListByProvider(_ context.Context, providerID string) ([]entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []entities.Appointment
	for _, appt := range s.appointments {
		if appt.ProviderID == providerID {
			items = append(items, appt)
		}
	}
	sortByInstant(items)
	return items, nil
}

func (s *Store) ListByPatient(_ context.Context, patientID string) ([]entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []entities.Appointment
	for _, appt := range s.appointments {
		if appt.PatientID == patientID {
			items = append(items, appt)
		}
	}
	sortByInstant(items)
	return items, nil
}

func (s *Store) HasActiveSlot(_ context.Context, providerID string, at time.Time, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotTaken(providerID, at, excludeID), nil
}

func (s *Store) slotTaken(providerID string, at time.Time, excludeID string) bool {
	for _, appt := range s.appointments {
		if appt.AppointmentID == excludeID {
			continue
		}
		if appt.ProviderID == providerID && appt.Status.Active() && appt.ScheduledAt.Equal(at.UTC()) {
			return true
		}
	}
	return false
}

func sortByInstant(items []entities.Appointment) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ScheduledAt.Equal(items[j].ScheduledAt) {
			return items[i].ScheduledAt.Before(items[j].ScheduledAt)
		}
		return items[i].AppointmentID < items[j].AppointmentID
	})
}

func (s *Store) Now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
