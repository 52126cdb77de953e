// service_test.go

package payment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
	"github.com/InnoTechI/skillx-api/internal/order"
)

type fakeRepo struct {
	byID map[string]*Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*Payment)}
}

func (f *fakeRepo) Create(_ context.Context, payment *Payment) error {
	copied := *payment
	f.byID[payment.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Payment, error) {
	payment, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("fake: %w", core.ErrNotFound)
	}
	copied := *payment
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, payment *Payment) error {
	if _, ok := f.byID[payment.ID]; !ok {
		return fmt.Errorf("fake: %w", core.ErrNotFound)
	}
	copied := *payment
	f.byID[payment.ID] = &copied
	return nil
}

func (f *fakeRepo) List(_ context.Context, params ListPaymentsParams) ([]Payment, int, error) {
	var out []Payment
	for _, payment := range f.byID {
		if params.ClientID != "" && payment.ClientID != params.ClientID {
			continue
		}
		out = append(out, *payment)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Revenue(_ context.Context) (*RevenueTotals, error) {
	totals := &RevenueTotals{}
	for _, payment := range f.byID {
		if payment.Status == StatusCompleted {
			totals.TotalCents += payment.AmountCents
		}
	}
	return totals, nil
}

type fakeOrders struct {
	byID map[string]*order.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: make(map[string]*order.Order)}
}

func (f *fakeOrders) Create(_ context.Context, o *order.Order) error {
	copied := *o
	f.byID[o.ID] = &copied
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("fake: %w", core.ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrders) Update(_ context.Context, o *order.Order) error {
	copied := *o
	f.byID[o.ID] = &copied
	return nil
}

func (f *fakeOrders) List(_ context.Context, _ order.ListOrdersParams) ([]order.Order, int, error) {
	return nil, 0, nil
}

func (f *fakeOrders) CountByStatus(_ context.Context) (map[order.Status]int, error) {
	return nil, nil
}

func (f *fakeOrders) Recent(_ context.Context, _ int) ([]order.Order, error) {
	return nil, nil
}

var (
	clientIdentity   = &middleware.Identity{UserID: "c1", Role: "client"}
	strangerIdentity = &middleware.Identity{UserID: "c2", Role: "client"}
	adminIdentity    = &middleware.Identity{UserID: "a1", Role: "admin"}
	otherAdmin       = &middleware.Identity{UserID: "a2", Role: "admin"}
	superIdentity    = &middleware.Identity{UserID: "s1", Role: "super_admin"}
)

func newTestService() (*Service, *fakeRepo, *fakeOrders) {
	repo := newFakeRepo()
	orders := newFakeOrders()
	return NewService(repo, orders), repo, orders
}

func seedOrder(orders *fakeOrders, assignedTo *string) *order.Order {
	o := &order.Order{
		ID:          "o1",
		OrderNumber: "SKX-TEST0001",
		ClientID:    "c1",
		ServiceType: order.ServiceResume,
		PackageTier: order.TierProfessional,
		Status:      order.StatusInProgress,
		AmountCents: 19900,
		Currency:    "USD",
	}
	o.AssignedAdminID = assignedTo
	orders.byID[o.ID] = o
	return o
}

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()

	appErr, ok := core.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestRecord_DefaultsFromOrder(t *testing.T) {
	t.Parallel()

	svc, _, orders := newTestService()
	seedOrder(orders, nil)

	payment, err := svc.Record(context.Background(), adminIdentity, RecordPaymentRequest{
		OrderID: "o1",
		Method:  "card",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(19900), payment.AmountCents, "amount defaults to the order amount")
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, StatusCompleted, payment.Status, "status defaults to completed")
	assert.Equal(t, "c1", payment.ClientID, "client id copied from the order")
}

func TestRecord_UnknownOrder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()

	_, err := svc.Record(context.Background(), adminIdentity, RecordPaymentRequest{
		OrderID: "missing",
		Method:  "card",
	})
	requireAppCode(t, err, core.CodeNotFound)
}

func TestRecord_AssignmentOwnership(t *testing.T) {
	t.Parallel()

	assigned := "a1"

	cases := []struct {
		name     string
		assigned *string
		identity *middleware.Identity
		wantDeny bool
	}{
		{"any admin on unassigned order", nil, adminIdentity, false},
		{"assigned admin", &assigned, adminIdentity, false},
		{"other admin on assigned order", &assigned, otherAdmin, true},
		{"super_admin bypasses assignment", &assigned, superIdentity, false},
		{"stranger client", nil, strangerIdentity, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, orders := newTestService()
			seedOrder(orders, tc.assigned)

			_, err := svc.Record(context.Background(), tc.identity, RecordPaymentRequest{
				OrderID: "o1",
				Method:  "bank_transfer",
			})

			if tc.wantDeny {
				requireAppCode(t, err, core.CodeResourceAccessDenied)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGet_OwnershipFollowsClient(t *testing.T) {
	t.Parallel()

	svc, _, orders := newTestService()
	seedOrder(orders, nil)

	payment, err := svc.Record(context.Background(), adminIdentity, RecordPaymentRequest{
		OrderID: "o1",
		Method:  "card",
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), clientIdentity, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	_, err = svc.Get(context.Background(), strangerIdentity, payment.ID)
	requireAppCode(t, err, core.CodeResourceAccessDenied)
}

func TestList_ClientsArePinnedToOwnPayments(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	repo.byID["p1"] = &Payment{ID: "p1", ClientID: "c1", Status: StatusCompleted}
	repo.byID["p2"] = &Payment{ID: "p2", ClientID: "c2", Status: StatusCompleted}

	// A client asking for someone else's payments still gets only its
	// own.
	payments, total, err := svc.List(context.Background(), clientIdentity, ListPaymentsParams{
		ClientID: "c2",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "c1", payments[0].ClientID)

	_, total, err = svc.List(context.Background(), adminIdentity, ListPaymentsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"completed to refunded", StatusCompleted, StatusRefunded, true},
		{"refunded is terminal", StatusRefunded, StatusCompleted, false},
		{"failed is terminal", StatusFailed, StatusPending, false},
		{"completed cannot fail", StatusCompleted, StatusFailed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, orders := newTestService()
			seedOrder(orders, nil)
			repo.byID["p1"] = &Payment{
				ID: "p1", OrderID: "o1", ClientID: "c1", Status: tc.from,
			}

			_, err := svc.UpdateStatus(context.Background(), adminIdentity, "p1", tc.to)

			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, repo.byID["p1"].Status)
				return
			}
			requireAppCode(t, err, core.CodeValidationError)
		})
	}
}

func TestUpdateStatus_DeniedForUnassignedAdmin(t *testing.T) {
	t.Parallel()

	assigned := "a1"
	svc, repo, orders := newTestService()
	seedOrder(orders, &assigned)
	repo.byID["p1"] = &Payment{
		ID: "p1", OrderID: "o1", ClientID: "c1", Status: StatusPending,
	}

	_, err := svc.UpdateStatus(context.Background(), otherAdmin, "p1", StatusCompleted)
	requireAppCode(t, err, core.CodeResourceAccessDenied)
}

func TestRevenue_SumsCompletedOnly(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	repo.byID["p1"] = &Payment{ID: "p1", Status: StatusCompleted, AmountCents: 10000}
	repo.byID["p2"] = &Payment{ID: "p2", Status: StatusPending, AmountCents: 5000}
	repo.byID["p3"] = &Payment{ID: "p3", Status: StatusCompleted, AmountCents: 2500}

	totals, err := svc.Revenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12500), totals.TotalCents)
}
