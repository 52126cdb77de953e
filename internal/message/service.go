// service.go

package message

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
	"github.com/InnoTechI/skillx-api/internal/order"
)

// Service runs the per-order conversation threads. Participation
// follows the parent order's assignment: the owning client, the
// assigned admin (any admin while the order is unassigned), and
// super_admins. Everyone else is denied without revealing whether the
// order exists.
type Service struct {
	repo   Repository
	orders order.Repository
}

func NewService(repo Repository, orders order.Repository) *Service {
	return &Service{repo: repo, orders: orders}
}

func (s *Service) Send(
	ctx context.Context,
	identity *middleware.Identity,
	req SendMessageRequest,
) (*Message, error) {
	parent, err := s.getParentOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !s.isParticipant(identity, parent) {
		return nil, core.ResourceAccessDeniedError()
	}

	message := &Message{
		ID:         uuid.New().String(),
		OrderID:    parent.ID,
		SenderID:   identity.UserID,
		SenderRole: identity.Role,
		Body:       req.Body,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, core.InternalError(err)
	}

	return message, nil
}

func (s *Service) ListByOrder(
	ctx context.Context,
	identity *middleware.Identity,
	params ListMessagesParams,
) ([]Message, int, error) {
	parent, err := s.getParentOrder(ctx, params.OrderID)
	if err != nil {
		return nil, 0, err
	}

	if !s.isParticipant(identity, parent) {
		return nil, 0, core.ResourceAccessDeniedError()
	}

	messages, total, err := s.repo.ListByOrder(ctx, params)
	if err != nil {
		return nil, 0, core.InternalError(err)
	}

	return messages, total, nil
}

// MarkRead stamps the counterparty's unread messages in one thread.
func (s *Service) MarkRead(
	ctx context.Context,
	identity *middleware.Identity,
	orderID string,
) (int, error) {
	parent, err := s.getParentOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	if !s.isParticipant(identity, parent) {
		return 0, core.ResourceAccessDeniedError()
	}

	marked, err := s.repo.MarkRead(ctx, orderID, identity.UserID)
	if err != nil {
		return 0, core.InternalError(err)
	}

	return marked, nil
}

// CountUnreadFromClients feeds the dashboard; callers gate access.
func (s *Service) CountUnreadFromClients(ctx context.Context) (int, error) {
	count, err := s.repo.CountUnreadFromClients(ctx)
	if err != nil {
		return 0, core.InternalError(err)
	}
	return count, nil
}

func (s *Service) isParticipant(
	identity *middleware.Identity,
	parent *order.Order,
) bool {
	return middleware.CanMutateResource(identity, parent.ClientID, parent.AssignedAdminID)
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
