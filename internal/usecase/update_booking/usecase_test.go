package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/pricing"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateFields(ctx context.Context, id int64, expectedVersion int64, upd bookingRepo.UpdateFields) error {
	args := m.Called(ctx, id, expectedVersion, upd)
	return args.Error(0)
}

type mockPricing struct {
	mock.Mock
}

func (m *mockPricing) GetServiceQuote(ctx context.Context, serviceID, planID int64) (*pricing.ServiceQuote, error) {
	args := m.Called(ctx, serviceID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ServiceQuote), args.Error(1)
}

func (m *mockPricing) GetOrderQuote(ctx context.Context, itemIDs []int64, categoryID int64) (*pricing.OrderQuote, error) {
	args := m.Called(ctx, itemIDs, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.OrderQuote), args.Error(1)
}

type mockStaffClient struct {
	mock.Mock
}

func (m *mockStaffClient) GetMember(ctx context.Context, staffID int64) (*staff.Member, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Member), args.Error(1)
}

type inlineTxManager struct{}

func (inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newFixture() (*mockBookingRepo, *mockPricing, *mockStaffClient, *UseCase) {
	repo := new(mockBookingRepo)
	price := new(mockPricing)
	staffMock := new(mockStaffClient)
	uc := NewUseCase(repo, price, staffMock, inlineTxManager{}, noopLogger{})
	return repo, price, staffMock, uc
}

func coordinator() *staff.Member {
	return &staff.Member{ID: 100, Roles: []string{"coordinator"}, Active: true}
}

func paidAppointment() *domain.Booking {
	return &domain.Booking{
		ID:           1,
		Kind:         domain.KindAppointment,
		CustomerID:   7,
		ServiceID:    ptr.Ptr(int64(3)),
		PlanID:       ptr.Ptr(int64(2)),
		Price:        1500,
		Status:       domain.StatusPending,
		PaymentState: domain.PaymentPaid,
		Version:      2,
		UpdatedAt:    time.Now(),
	}
}

func TestExecute_PaidRejectsServiceChange(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	staffMock.On("GetMember", mock.Anything, int64(100)).Return(coordinator(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(paidAppointment(), nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100, ServiceID: ptr.Ptr(int64(9)),
	})
	assert.ErrorIs(t, err, ErrPaymentLocked)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_PaidAcceptsNotesOnlyChange(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	staffMock.On("GetMember", mock.Anything, int64(100)).Return(coordinator(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(paidAppointment(), nil)
	repo.On("UpdateFields", mock.Anything, int64(1), int64(2), mock.MatchedBy(func(u bookingRepo.UpdateFields) bool {
		return u.Notes != nil && u.Price == nil
	})).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100, Notes: ptr.Ptr("перезвонить клиенту"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Version)
	// Цена не пересчитывалась
	assert.Equal(t, 1500.0, resp.Price)
}

func TestExecute_PlanChangeRecomputesPrice(t *testing.T) {
	repo, price, staffMock, uc := newFixture()

	b := paidAppointment()
	b.PaymentState = domain.PaymentUnpaid

	staffMock.On("GetMember", mock.Anything, int64(100)).Return(coordinator(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(b, nil)
	price.On("GetServiceQuote", mock.Anything, int64(3), int64(5)).
		Return(&pricing.ServiceQuote{Price: 2100}, nil)
	repo.On("UpdateFields", mock.Anything, int64(1), int64(2), mock.MatchedBy(func(u bookingRepo.UpdateFields) bool {
		return u.Price != nil && *u.Price == 2100
	})).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100, PlanID: ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, resp.Price)
	price.AssertExpectations(t)
}

func TestExecute_ReportOnlyForCompleted(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	staffMock.On("GetMember", mock.Anything, int64(100)).Return(coordinator(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(paidAppointment(), nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100, Report: ptr.Ptr("выполнена замена масла"),
	})
	assert.ErrorIs(t, err, ErrEditNotAllowed)
}

func TestExecute_ClerkEditsReportOnCompleted(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	b := paidAppointment()
	b.Status = domain.StatusCompleted

	staffMock.On("GetMember", mock.Anything, int64(200)).Return(&staff.Member{
		ID: 200, Roles: []string{"clerk"}, Active: true,
	}, nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(b, nil)
	repo.On("UpdateFields", mock.Anything, int64(1), int64(2), mock.MatchedBy(func(u bookingRepo.UpdateFields) bool {
		return u.Report != nil
	})).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 200, Report: ptr.Ptr("выполнена замена масла"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Report)
}

func TestExecute_UnassignedMechanicCannotEditReport(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	b := paidAppointment()
	b.Status = domain.StatusCompleted
	b.AssignedStaffID = ptr.Ptr(int64(55))

	staffMock.On("GetMember", mock.Anything, int64(56)).Return(&staff.Member{
		ID: 56, Roles: []string{"mechanic"}, Active: true,
	}, nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(b, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 56, Report: ptr.Ptr("отчёт"),
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestExecute_MixedScenarioRejected(t *testing.T) {
	_, _, _, uc := newFixture()

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100,
		Notes:  ptr.Ptr("заметка"),
		Report: ptr.Ptr("отчёт"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_BasicEditFrozenAfterCompletion(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	b := paidAppointment()
	b.Status = domain.StatusCompleted

	staffMock.On("GetMember", mock.Anything, int64(100)).Return(coordinator(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(b, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100, Notes: ptr.Ptr("заметка"),
	})
	assert.ErrorIs(t, err, ErrEditNotAllowed)
}

func TestExecute_StaleWriteAfterTwoConflicts(t *testing.T) {
	repo, _, staffMock, uc := newFixture()

	staffMock.On("GetMember", mock.Anything, int64(100)).Return(coordinator(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(paidAppointment(), nil)
	repo.On("UpdateFields", mock.Anything, int64(1), int64(2), mock.Anything).
		Return(bookingRepo.ErrVersionConflict)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1, ActorID: 100, Notes: ptr.Ptr("заметка"),
	})
	assert.ErrorIs(t, err, ErrStaleWrite)
}
