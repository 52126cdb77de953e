// service.go

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
)

const defaultCurrency = "USD"

// Service owns order lifecycle rules. Prices always come from the
// server-side price table; the amount a client sends is never
// trusted.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create places a new order for the calling client.
func (s *Service) Create(
	ctx context.Context,
	clientID string,
	req CreateOrderRequest,
) (*Order, error) {
	service := ServiceType(req.ServiceType)
	tier := PackageTier(req.PackageTier)

	amount, ok := PriceFor(service, tier)
	if !ok {
		return nil, core.ValidationError("unknown service type or package tier")
	}

	order := &Order{
		ID:           uuid.New().String(),
		OrderNumber:  NewOrderNumber(),
		ClientID:     clientID,
		ServiceType:  service,
		PackageTier:  tier,
		Status:       StatusPending,
		AmountCents:  amount,
		Currency:     defaultCurrency,
		Requirements: req.Requirements,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, core.InternalError(err)
	}

	return order, nil
}

// Get returns a single order, enforcing the ownership rule: clients
// see only their own orders and the denial does not reveal whether
// the order exists.
func (s *Service) Get(
	ctx context.Context,
	identity *middleware.Identity,
	orderID string,
) (*Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanViewResource(identity, order.ClientID) {
		return nil, core.ResourceAccessDeniedError()
	}

	return order, nil
}

// List returns orders visible to the caller. Clients are pinned to
// their own orders regardless of the filters they send; admin-class
// callers may filter freely.
func (s *Service) List(
	ctx context.Context,
	identity *middleware.Identity,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.Normalize()

	if identity == nil {
		return nil, 0, core.NotAuthenticatedError()
	}
	if !middleware.AdminClassRole(identity.Role) {
		params.ClientID = identity.UserID
		params.AssignedTo = ""
	}

	orders, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, core.InternalError(err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order through its lifecycle. The first admin
// to touch an unassigned order claims it; from then on other admins
// are denied unless they hold super_admin.
func (s *Service) UpdateStatus(
	ctx context.Context,
	identity *middleware.Identity,
	orderID string,
	next Status,
) (*Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanMutateResource(identity, order.ClientID, order.AssignedAdminID) {
		return nil, core.ResourceAccessDeniedError()
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, core.ValidationError(
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, next),
		)
	}

	order.Status = next
	if identity.Role == "admin" && order.AssignedAdminID == nil {
		adminID := identity.UserID
		order.AssignedAdminID = &adminID
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, core.InternalError(err)
	}

	return order, nil
}

// Cancel lets a client withdraw an order that has not been started.
// Admin-class callers cancel through UpdateStatus instead.
func (s *Service) Cancel(
	ctx context.Context,
	identity *middleware.Identity,
	orderID string,
) (*Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if identity == nil || order.ClientID != identity.UserID {
		return nil, core.ResourceAccessDeniedError()
	}

	if order.Status != StatusPending {
		return nil, core.ValidationError("only pending orders can be cancelled")
	}

	order.Status = StatusCancelled
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, core.InternalError(err)
	}

	return order, nil
}

func (s *Service) getOrder(ctx context.Context, orderID string) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("order")
		}
		return nil, core.InternalError(err)
	}
	return order, nil
}
