package escrow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	coremocks "github.com/stellovault/backend/mocks/port/core"
	externalmocks "github.com/stellovault/backend/mocks/port/external"
	persistencemocks "github.com/stellovault/backend/mocks/port/persistence"
)

const testContractID = "CCJZ5DGASBWQXR5MPFCJXMBI333XE5U3FSJTNQU7RIKE3P5GN2K2WYYA"

func newTestService() (*Service, *persistencemocks.MockUnitOfWork, *externalmocks.MockInvocationBuilder, *externalmocks.MockNotifier, *coremocks.MockTimeProvider) {
	uow := persistencemocks.NewMockUnitOfWork()
	builder := externalmocks.NewMockInvocationBuilder()
	notifier := externalmocks.NewMockNotifier()
	clock := coremocks.NewMockTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := coremocks.NewMockLogger()
	svc := NewService(uow, builder, notifier, clock, logger, testContractID)
	return svc, uow, builder, notifier, clock
}

func validCreateRequest(clock *coremocks.MockTimeProvider) usecase.CreateEscrowRequest {
	return usecase.CreateEscrowRequest{
		BuyerID:   uuid.New(),
		SellerID:  uuid.New(),
		Amount:    decimal.RequireFromString("100.50"),
		AssetCode: "USDC",
		ExpiresAt: clock.Now().Add(24 * time.Hour),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a pending escrow and announces it", func(t *testing.T) {
		svc, uow, builder, notifier, clock := newTestService()
		req := validCreateRequest(clock)

		uow.UserRepo.On("Exists", mock.Anything, req.BuyerID).Return(true, nil)
		uow.UserRepo.On("Exists", mock.Anything, req.SellerID).Return(true, nil)
		builder.On("BuildInvocation", mock.Anything, testContractID, "create_escrow", mock.Anything).
			Return("cGF5bG9hZA==", nil)
		uow.EscrowRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.Escrow) bool {
			return e.Status == entity.EscrowPending && e.InvocationPayload == "cGF5bG9hZA=="
		})).Return(nil)

		result, err := svc.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, entity.EscrowPending, result.Escrow.Status)
		assert.Equal(t, "cGF5bG9hZA==", result.InvocationPayload)

		events := notifier.Events()
		require.Len(t, events, 1)
		created, ok := events[0].(entity.EscrowCreated)
		require.True(t, ok)
		assert.Equal(t, result.Escrow.ID, created.EscrowID)
	})

	t.Run("buyer and seller must differ", func(t *testing.T) {
		svc, uow, _, _, clock := newTestService()
		req := validCreateRequest(clock)
		req.SellerID = req.BuyerID

		result, err := svc.Create(ctx, req)

		assert.Nil(t, result)
		assert.True(t, errs.IsValidationError(err))
		uow.EscrowRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("an unknown party is rejected", func(t *testing.T) {
		svc, uow, _, _, clock := newTestService()
		req := validCreateRequest(clock)
		uow.UserRepo.On("Exists", mock.Anything, req.BuyerID).Return(false, nil)

		result, err := svc.Create(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("a builder failure writes nothing", func(t *testing.T) {
		svc, uow, builder, notifier, clock := newTestService()
		req := validCreateRequest(clock)
		uow.UserRepo.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
		builder.On("BuildInvocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errs.ErrDependency)

		result, err := svc.Create(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrDependency)
		uow.EscrowRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, notifier.Events())
	})
}

func TestProcessEvent(t *testing.T) {
	ctx := context.Background()

	pendingEscrow := func(clock *coremocks.MockTimeProvider) *entity.Escrow {
		return &entity.Escrow{
			ID:        uuid.New(),
			BuyerID:   uuid.New(),
			SellerID:  uuid.New(),
			Amount:    decimal.RequireFromString("100"),
			AssetCode: "USDC",
			Status:    entity.EscrowPending,
			ExpiresAt: clock.Now().Add(time.Hour),
		}
	}

	t.Run("a legal transition updates status and publishes", func(t *testing.T) {
		svc, uow, _, notifier, clock := newTestService()
		esc := pendingEscrow(clock)
		txHash := "deadbeef"

		uow.EscrowRepo.On("GetByID", mock.Anything, esc.ID).Return(esc, nil)
		uow.EscrowRepo.On("UpdateStatusIf", mock.Anything, esc.ID, entity.EscrowPending, entity.EscrowActive, &txHash, clock.Now()).
			Return(int64(1), nil)

		updated, err := svc.ProcessEvent(ctx, esc.ID, entity.EscrowActive, &txHash)

		require.NoError(t, err)
		assert.Equal(t, entity.EscrowActive, updated.Status)
		require.NotNil(t, updated.ExternalTxHash)
		assert.Equal(t, "deadbeef", *updated.ExternalTxHash)

		events := notifier.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "escrow.updated", events[0].Name())
	})

	t.Run("an illegal transition is rejected before any write", func(t *testing.T) {
		svc, uow, _, notifier, clock := newTestService()
		esc := pendingEscrow(clock)
		esc.Status = entity.EscrowCompleted

		uow.EscrowRepo.On("GetByID", mock.Anything, esc.ID).Return(esc, nil)

		updated, err := svc.ProcessEvent(ctx, esc.ID, entity.EscrowActive, nil)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.True(t, errs.IsValidationError(err))
		uow.EscrowRepo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, notifier.Events())
	})

	t.Run("a self-loop is accepted without effect", func(t *testing.T) {
		svc, uow, _, notifier, clock := newTestService()
		esc := pendingEscrow(clock)
		esc.Status = entity.EscrowActive

		uow.EscrowRepo.On("GetByID", mock.Anything, esc.ID).Return(esc, nil)

		updated, err := svc.ProcessEvent(ctx, esc.ID, entity.EscrowActive, nil)

		require.NoError(t, err)
		assert.Equal(t, entity.EscrowActive, updated.Status)
		uow.EscrowRepo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, notifier.Events())
	})

	t.Run("losing a concurrent race surfaces as a retryable conflict", func(t *testing.T) {
		svc, uow, _, notifier, clock := newTestService()
		esc := pendingEscrow(clock)

		uow.EscrowRepo.On("GetByID", mock.Anything, esc.ID).Return(esc, nil)
		uow.EscrowRepo.On("UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(int64(0), nil)

		updated, err := svc.ProcessEvent(ctx, esc.ID, entity.EscrowActive, nil)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
		assert.True(t, errs.IsValidationError(err))
		assert.Empty(t, notifier.Events())
	})

	t.Run("unknown escrow", func(t *testing.T) {
		svc, uow, _, _, _ := newTestService()
		id := uuid.New()
		uow.EscrowRepo.On("GetByID", mock.Anything, id).Return(nil, errs.ErrEscrowNotFound)

		updated, err := svc.ProcessEvent(ctx, id, entity.EscrowActive, nil)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, errs.ErrEscrowNotFound)
	})
}

func TestTimeoutSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("expires overdue actives and skips raced ones", func(t *testing.T) {
		svc, uow, _, notifier, clock := newTestService()
		first := entity.Escrow{ID: uuid.New(), Status: entity.EscrowActive}
		second := entity.Escrow{ID: uuid.New(), Status: entity.EscrowActive}

		uow.EscrowRepo.On("ListExpiredActive", mock.Anything, clock.Now()).
			Return([]entity.Escrow{first, second}, nil)
		uow.EscrowRepo.On("UpdateStatusIf", mock.Anything, first.ID, entity.EscrowActive, entity.EscrowExpired, (*string)(nil), clock.Now()).
			Return(int64(1), nil)
		// the second escrow was completed by a webhook between listing and update
		uow.EscrowRepo.On("UpdateStatusIf", mock.Anything, second.ID, entity.EscrowActive, entity.EscrowExpired, (*string)(nil), clock.Now()).
			Return(int64(0), nil)

		expired, err := svc.TimeoutSweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		events := notifier.Events()
		require.Len(t, events, 1)
		updated, ok := events[0].(entity.EscrowUpdated)
		require.True(t, ok)
		assert.Equal(t, first.ID, updated.EscrowID)
		assert.Equal(t, entity.EscrowExpired, updated.Status)
	})

	t.Run("a failing update does not stop the sweep", func(t *testing.T) {
		svc, uow, _, _, clock := newTestService()
		first := entity.Escrow{ID: uuid.New(), Status: entity.EscrowActive}
		second := entity.Escrow{ID: uuid.New(), Status: entity.EscrowActive}

		uow.EscrowRepo.On("ListExpiredActive", mock.Anything, clock.Now()).
			Return([]entity.Escrow{first, second}, nil)
		uow.EscrowRepo.On("UpdateStatusIf", mock.Anything, first.ID, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(int64(0), assert.AnError)
		uow.EscrowRepo.On("UpdateStatusIf", mock.Anything, second.ID, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(int64(1), nil)

		expired, err := svc.TimeoutSweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, expired)
	})
}
