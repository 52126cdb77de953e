// service.go

package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
	"github.com/InnoTechI/skillx-api/internal/order"
)

// Service keeps the payments ledger. Ownership always follows the
// parent order: an admin assigned to the order (or a super_admin) may
// record and amend entries, the owning client may read them.
type Service struct {
	repo   Repository
	orders order.Repository
}

func NewService(repo Repository, orders order.Repository) *Service {
	return &Service{repo: repo, orders: orders}
}

// Record writes a ledger entry against an order. Amount and currency
// default to the order's own when the request leaves them blank.
func (s *Service) Record(
	ctx context.Context,
	identity *middleware.Identity,
	req RecordPaymentRequest,
) (*Payment, error) {
	parent, err := s.getParentOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanMutateResource(identity, parent.ClientID, parent.AssignedAdminID) {
		return nil, core.ResourceAccessDeniedError()
	}

	amount := req.AmountCents
	if amount == 0 {
		amount = parent.AmountCents
	}

	status := Status(req.Status)
	if req.Status == "" {
		status = StatusCompleted
	}

	payment := &Payment{
		ID:          uuid.New().String(),
		OrderID:     parent.ID,
		ClientID:    parent.ClientID,
		AmountCents: amount,
		Currency:    parent.Currency,
		Method:      Method(req.Method),
		Status:      status,
		Reference:   req.Reference,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, core.InternalError(err)
	}

	return payment, nil
}

func (s *Service) Get(
	ctx context.Context,
	identity *middleware.Identity,
	paymentID string,
) (*Payment, error) {
	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanViewResource(identity, payment.ClientID) {
		return nil, core.ResourceAccessDeniedError()
	}

	return payment, nil
}

// List returns ledger entries visible to the caller. Clients are
// pinned to their own entries.
func (s *Service) List(
	ctx context.Context,
	identity *middleware.Identity,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	params.Normalize()

	if identity == nil {
		return nil, 0, core.NotAuthenticatedError()
	}
	if !middleware.AdminClassRole(identity.Role) {
		params.ClientID = identity.UserID
	}

	payments, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, core.InternalError(err)
	}

	return payments, total, nil
}

// UpdateStatus amends a ledger entry, for example marking a pending
// transfer completed or a completed charge refunded.
func (s *Service) UpdateStatus(
	ctx context.Context,
	identity *middleware.Identity,
	paymentID string,
	next Status,
) (*Payment, error) {
	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	parent, err := s.getParentOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanMutateResource(identity, parent.ClientID, parent.AssignedAdminID) {
		return nil, core.ResourceAccessDeniedError()
	}

	if !payment.Status.CanTransitionTo(next) {
		return nil, core.ValidationError(
			fmt.Sprintf("cannot transition payment from %s to %s", payment.Status, next),
		)
	}

	payment.Status = next
	if err := s.repo.UpdateStatus(ctx, payment); err != nil {
		return nil, core.InternalError(err)
	}

	return payment, nil
}

// Revenue feeds the dashboard; callers gate access.
func (s *Service) Revenue(ctx context.Context) (*RevenueTotals, error) {
	totals, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, core.InternalError(err)
	}
	return totals, nil
}

func (s *Service) getPayment(ctx context.Context, paymentID string) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("payment")
		}
		return nil, core.InternalError(err)
	}
	return payment, nil
}

func (s *Service) getParentOrder(ctx context.Context, orderID string) (*order.Order, error) {
	parent, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("order")
		}
		return nil, core.InternalError(err)
	}
	return parent, nil
}
