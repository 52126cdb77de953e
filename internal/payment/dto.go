// dto.go

package payment

import "time"

// RecordPaymentRequest captures a manual ledger entry. AmountCents of
// zero means "the order amount"; Status defaults to completed because
// admins usually record money that has already arrived.
type RecordPaymentRequest struct {
	OrderID     string `json:"orderId" validate:"required,uuid"`
	AmountCents int64  `json:"amountCents" validate:"omitempty,gt=0"`
	Method      string `json:"method" validate:"required,oneof=card bank_transfer paypal"`
	Status      string `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	Reference   string `json:"reference" validate:"omitempty,max=255"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed refunded"`
}

type PaymentResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ClientID    string    `json:"clientId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListPaymentsParams struct {
	Page     int
	PageSize int
	Status   string
	Method   string
	OrderID  string
	ClientID string
}

func (p *ListPaymentsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListPaymentsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToPaymentResponse(payment *Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          payment.ID,
		OrderID:     payment.OrderID,
		ClientID:    payment.ClientID,
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		Method:      string(payment.Method),
		Status:      string(payment.Status),
		Reference:   payment.Reference,
		Notes:       payment.Notes,
		CreatedAt:   payment.CreatedAt,
		UpdatedAt:   payment.UpdatedAt,
	}
}

func ToPaymentResponseList(payments []Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, ToPaymentResponse(&payments[i]))
	}
	return out
}
