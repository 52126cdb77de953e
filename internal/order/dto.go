// dto.go

package order

import (
	"time"
)

type CreateOrderRequest struct {
	ServiceType  string `json:"serviceType"  validate:"required,oneof=resume cover_letter linkedin_profile bundle"`
	PackageTier  string `json:"packageTier"  validate:"required,oneof=basic professional executive"`
	Requirements string `json:"requirements" validate:"max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress delivered completed cancelled"`
}

type OrderResponse struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"orderNumber"`
	ClientID        string    `json:"clientId"`
	AssignedAdminID *string   `json:"assignedAdminId,omitempty"`
	ServiceType     string    `json:"serviceType"`
	PackageTier     string    `json:"packageTier"`
	Status          string    `json:"status"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	Requirements    string    `json:"requirements"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ListOrdersParams struct {
	Page        int
	PageSize    int
	Status      string
	ServiceType string
	ClientID    string
	AssignedTo  string
}

func (p *ListOrdersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListOrdersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ClientID:        o.ClientID,
		AssignedAdminID: o.AssignedAdminID,
		ServiceType:     string(o.ServiceType),
		PackageTier:     string(o.PackageTier),
		Status:          string(o.Status),
		AmountCents:     o.AmountCents,
		Currency:        o.Currency,
		Requirements:    o.Requirements,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderResponse(&o))
	}
	return responses
}
