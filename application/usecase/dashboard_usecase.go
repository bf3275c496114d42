package usecase

import (
	"context"
	"time"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

type DashboardUseCase struct {
	patientRepo      outbound.PatientRepository
	appointmentRepo  outbound.AppointmentRepository
	consultationRepo outbound.ConsultationRepository
	logger           logger.Logger
	now              func() time.Time
}

func NewDashboardUseCase(
	patientRepo outbound.PatientRepository,
	appointmentRepo outbound.AppointmentRepository,
	consultationRepo outbound.ConsultationRepository,
	log logger.Logger,
) inbound.DashboardUseCase {
	return &DashboardUseCase{
		patientRepo:      patientRepo,
		appointmentRepo:  appointmentRepo,
		consultationRepo: consultationRepo,
		logger:           log,
		now:              time.Now,
	}
}

// GetStats aggregates the overview counters. The week window starts on
// Monday, matching the scheduling view.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*inbound.DashboardStats, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := today.AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 7)

	todayCount, err := uc.appointmentRepo.CountByDateRange(ctx, today, tomorrow)
	if err != nil {
		return nil, apperror.Transient("failed to count today's appointments", err)
	}
	weekCount, err := uc.appointmentRepo.CountByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, apperror.Transient("failed to count weekly appointments", err)
	}
	patientCount, err := uc.patientRepo.CountActive(ctx)
	if err != nil {
		return nil, apperror.Transient("failed to count patients", err)
	}
	pendingCount, err := uc.consultationRepo.CountByPaymentStatus(ctx, entity.PaymentPending)
	if err != nil {
		return nil, apperror.Transient("failed to count pending payments", err)
	}

	return &inbound.DashboardStats{
		TodayAppointments: todayCount,
		WeekAppointments:  weekCount,
		TotalPatients:     patientCount,
		PendingPayments:   pendingCount,
	}, nil
}
