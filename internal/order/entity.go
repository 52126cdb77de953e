// entity.go

package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ServiceType string

const (
	ServiceResume          ServiceType = "resume"
	ServiceCoverLetter     ServiceType = "cover_letter"
	ServiceLinkedInProfile ServiceType = "linkedin_profile"
	ServiceBundle          ServiceType = "bundle"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceResume, ServiceCoverLetter, ServiceLinkedInProfile,
		ServiceBundle:
		return true
	}
	return false
}

type PackageTier string

const (
	TierBasic        PackageTier = "basic"
	TierProfessional PackageTier = "professional"
	TierExecutive    PackageTier = "executive"
)

func (t PackageTier) Valid() bool {
	switch t {
	case TierBasic, TierProfessional, TierExecutive:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDelivered,
		StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// statusTransitions encodes the order lifecycle. Delivered orders may
// move back to in_progress when a revision is being worked; completed
// and cancelled are terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusCompleted, StatusInProgress},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a purchased service engagement. AssignedAdminID is nil
// until an admin first mutates the order, at which point the order is
// claimed for that admin (first-touch assignment).
type Order struct {
	ID              string      `db:"id"`
	OrderNumber     string      `db:"order_number"`
	ClientID        string      `db:"client_id"`
	AssignedAdminID *string     `db:"assigned_admin_id"`
	ServiceType     ServiceType `db:"service_type"`
	PackageTier     PackageTier `db:"package_tier"`
	Status          Status      `db:"status"`
	AmountCents     int64       `db:"amount_cents"`
	Currency        string      `db:"currency"`
	Requirements    string      `db:"requirements"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// NewOrderNumber returns a short human-facing reference like
// "SKX-1A2B3C4D". Uniqueness is enforced by the orders table.
func NewOrderNumber() string {
	fragment := strings.ToUpper(
		strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
	)
	return "SKX-" + fragment
}

// Package prices in cents, keyed by service then tier. Orders are
// priced server-side; the client never supplies an amount.
var priceTable = map[ServiceType]map[PackageTier]int64{
	ServiceResume: {
		TierBasic:        9900,
		TierProfessional: 19900,
		TierExecutive:    34900,
	},
	ServiceCoverLetter: {
		TierBasic:        4900,
		TierProfessional: 9900,
		TierExecutive:    14900,
	},
	ServiceLinkedInProfile: {
		TierBasic:        7900,
		TierProfessional: 14900,
		TierExecutive:    24900,
	},
	ServiceBundle: {
		TierBasic:        19900,
		TierProfessional: 39900,
		TierExecutive:    59900,
	},
}

func PriceFor(service ServiceType, tier PackageTier) (int64, bool) {
	tiers, ok := priceTable[service]
	if !ok {
		return 0, false
	}
	price, ok := tiers[tier]
	return price, ok
}
