package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/internal/service/bookings/models"
)

// Service сервис чтения записей с проверкой прав доступа
type Service struct {
	bookingRepo BookingRepository
	staffClient StaffClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(bookingRepo BookingRepository, staffClient StaffClient, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		staffClient: staffClient,
		logger:      logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - клиент видит только свои записи, сотрудники видят все
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for caller=%d", id, callerID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkAccess(ctx, booking.CustomerID, callerID); err != nil {
		s.logger.Warn("GetByID: access denied for caller=%d to booking id=%d", callerID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю записей клиента
// Опционально фильтрует по статусу; доступно владельцу и сотрудникам
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, caller=%d, status=%v",
		req.CustomerID, req.CallerID, req.Status)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if err := s.checkAccess(ctx, req.CustomerID, req.CallerID); err != nil {
		s.logger.Warn("GetCustomerBookings: access denied for caller=%d to customer=%d",
			req.CallerID, req.CustomerID)
		return nil, err
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: successfully fetched %d bookings for customer=%d",
		len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// checkAccess проверяет доступ к данным клиента: владелец или сотрудник.
// Путь только на чтение: при недоступности StaffService не являющийся
// владельцем вызывающий получает отказ, а не ошибку сервиса
func (s *Service) checkAccess(ctx context.Context, ownerID, callerID int64) error {
	if ownerID == callerID {
		return nil
	}

	member, err := s.staffClient.GetMemberWithGracefulDegradation(ctx, callerID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			return ErrAccessDenied
		}
		if errors.Is(err, staffClient.ErrServiceDegraded) {
			s.logger.Warn("checkAccess: staff service degraded, denying caller=%d", callerID)
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkAccess - staff client error: %v", ErrInternal, err)
	}

	if member == nil || !member.Active {
		return ErrAccessDenied
	}
	return nil
}
