// entity.go

package payment

import "time"

// Method is how the client paid. Payments are recorded manually by
// admins; there is no gateway integration behind these values.
type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodPaypal       Method = "paypal"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodPaypal:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// statusTransitions encodes the ledger lifecycle. Failed and refunded
// entries are terminal; a retried charge is a new payment row.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment is one ledger entry against an order. ClientID is copied
// from the order at record time so revenue queries never join.
type Payment struct {
	ID          string    `db:"id"`
	OrderID     string    `db:"order_id"`
	ClientID    string    `db:"client_id"`
	AmountCents int64     `db:"amount_cents"`
	Currency    string    `db:"currency"`
	Method      Method    `db:"method"`
	Status      Status    `db:"status"`
	Reference   string    `db:"reference"`
	Notes       string    `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// RevenueTotals aggregates completed payments for the dashboard.
type RevenueTotals struct {
	TotalCents int64 `db:"total_cents"`
	MonthCents int64 `db:"month_cents"`
}
