// service.go

package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
	"github.com/InnoTechI/skillx-api/internal/order"
)

// Service handles rework requests. Only the owning client opens one,
// and only against work that has actually been delivered; admins
// resolve them under the parent order's assignment.
type Service struct {
	repo   Repository
	orders order.Repository
}

func NewService(repo Repository, orders order.Repository) *Service {
	return &Service{repo: repo, orders: orders}
}

// Request opens a revision on the caller's own delivered or completed
// order.
func (s *Service) Request(
	ctx context.Context,
	identity *middleware.Identity,
	req RequestRevisionRequest,
) (*Revision, error) {
	parent, err := s.getParentOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if identity == nil || parent.ClientID != identity.UserID {
		return nil, core.ResourceAccessDeniedError()
	}

	if parent.Status != order.StatusDelivered && parent.Status != order.StatusCompleted {
		return nil, core.ValidationError(
			"revisions can only be requested on delivered or completed orders",
		)
	}

	revision := &Revision{
		ID:       uuid.New().String(),
		OrderID:  parent.ID,
		ClientID: parent.ClientID,
		Details:  req.Details,
	}

	if err := s.repo.Create(ctx, revision); err != nil {
		return nil, core.InternalError(err)
	}

	return revision, nil
}

func (s *Service) Get(
	ctx context.Context,
	identity *middleware.Identity,
	revisionID string,
) (*Revision, error) {
	revision, err := s.getRevision(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanViewResource(identity, revision.ClientID) {
		return nil, core.ResourceAccessDeniedError()
	}

	return revision, nil
}

func (s *Service) List(
	ctx context.Context,
	identity *middleware.Identity,
	params ListRevisionsParams,
) ([]Revision, int, error) {
	params.Normalize()

	if identity == nil {
		return nil, 0, core.NotAuthenticatedError()
	}
	if !middleware.AdminClassRole(identity.Role) {
		params.ClientID = identity.UserID
	}

	revisions, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, core.InternalError(err)
	}

	return revisions, total, nil
}

// UpdateStatus advances a revision under the parent order's
// assignment. Completed and declined stamp ResolvedAt.
func (s *Service) UpdateStatus(
	ctx context.Context,
	identity *middleware.Identity,
	revisionID string,
	next Status,
) (*Revision, error) {
	revision, err := s.getRevision(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	parent, err := s.getParentOrder(ctx, revision.OrderID)
	if err != nil {
		return nil, err
	}

	if !middleware.CanMutateResource(identity, parent.ClientID, parent.AssignedAdminID) {
		return nil, core.ResourceAccessDeniedError()
	}

	if !revision.Status.CanTransitionTo(next) {
		return nil, core.ValidationError(
			fmt.Sprintf("cannot transition revision from %s to %s", revision.Status, next),
		)
	}

	revision.Status = next
	if next.Resolved() && revision.ResolvedAt == nil {
		now := time.Now().UTC()
		revision.ResolvedAt = &now
	}

	if err := s.repo.Update(ctx, revision); err != nil {
		return nil, core.InternalError(err)
	}

	return revision, nil
}

// CountOpen feeds the dashboard; callers gate access.
func (s *Service) CountOpen(ctx context.Context) (int, error) {
	count, err := s.repo.CountOpen(ctx)
	if err != nil {
		return 0, core.InternalError(err)
	}
	return count, nil
}

func (s *Service) getRevision(ctx context.Context, revisionID string) (*Revision, error) {
	revision, err := s.repo.GetByID(ctx, revisionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("revision")
		}
		return nil, core.InternalError(err)
	}
	return revision, nil
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
