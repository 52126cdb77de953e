// service_test.go

package revision

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
	byID map[string]*Revision
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*Revision)}
}

func (f *fakeRepo) Create(_ context.Context, revision *Revision) error {
	if revision.Status == "" {
		revision.Status = StatusRequested
	}
	copied := *revision
	f.byID[revision.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Revision, error) {
	revision, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("fake: %w", core.ErrNotFound)
	}
	copied := *revision
	return &copied, nil
}

func (f *fakeRepo) Update(_ context.Context, revision *Revision) error {
	if _, ok := f.byID[revision.ID]; !ok {
		return fmt.Errorf("fake: %w", core.ErrNotFound)
	}
	copied := *revision
	f.byID[revision.ID] = &copied
	return nil
}

func (f *fakeRepo) List(_ context.Context, params ListRevisionsParams) ([]Revision, int, error) {
	var out []Revision
	for _, revision := range f.byID {
		if params.ClientID != "" && revision.ClientID != params.ClientID {
			continue
		}
		out = append(out, *revision)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CountOpen(_ context.Context) (int, error) {
	count := 0
	for _, revision := range f.byID {
		if !revision.Status.Resolved() {
			count++
		}
	}
	return count, nil
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

func seedOrder(orders *fakeOrders, status order.Status, assignedTo *string) {
	orders.byID["o1"] = &order.Order{
		ID:              "o1",
		ClientID:        "c1",
		AssignedAdminID: assignedTo,
		Status:          status,
	}
}

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()

	appErr, ok := core.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestRequest_OnDeliveredOwnOrder(t *testing.T) {
	t.Parallel()

	svc, _, orders := newTestService()
	seedOrder(orders, order.StatusDelivered, nil)

	revision, err := svc.Request(context.Background(), clientIdentity, RequestRevisionRequest{
		OrderID: "o1",
		Details: "please tighten the summary section",
	})
	require.NoError(t, err)

	assert.Equal(t, "o1", revision.OrderID)
	assert.Equal(t, "c1", revision.ClientID)
	assert.Nil(t, revision.ResolvedAt)
}

func TestRequest_RejectedBeforeDelivery(t *testing.T) {
	t.Parallel()

	for _, status := range []order.Status{
		order.StatusPending,
		order.StatusInProgress,
		order.StatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, _, orders := newTestService()
			seedOrder(orders, status, nil)

			_, err := svc.Request(context.Background(), clientIdentity, RequestRevisionRequest{
				OrderID: "o1",
				Details: "too early",
			})
			requireAppCode(t, err, core.CodeValidationError)
		})
	}
}

func TestRequest_OnlyOwningClient(t *testing.T) {
	t.Parallel()

	svc, _, orders := newTestService()
	seedOrder(orders, order.StatusDelivered, nil)

	_, err := svc.Request(context.Background(), strangerIdentity, RequestRevisionRequest{
		OrderID: "o1",
		Details: "not mine",
	})
	requireAppCode(t, err, core.CodeResourceAccessDenied)

	// Admins do not open revisions either; they resolve them.
	_, err = svc.Request(context.Background(), adminIdentity, RequestRevisionRequest{
		OrderID: "o1",
		Details: "also denied",
	})
	requireAppCode(t, err, core.CodeResourceAccessDenied)
}

func TestRequest_UnknownOrder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()

	_, err := svc.Request(context.Background(), clientIdentity, RequestRevisionRequest{
		OrderID: "missing",
		Details: "nothing there",
	})
	requireAppCode(t, err, core.CodeNotFound)
}

func TestUpdateStatus_StampsResolvedAtOnce(t *testing.T) {
	t.Parallel()

	svc, repo, orders := newTestService()
	seedOrder(orders, order.StatusDelivered, nil)
	repo.byID["r1"] = &Revision{
		ID: "r1", OrderID: "o1", ClientID: "c1", Status: StatusRequested,
	}

	inProgress, err := svc.UpdateStatus(context.Background(), adminIdentity, "r1", StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, inProgress.ResolvedAt, "in_progress is not terminal")

	completed, err := svc.UpdateStatus(context.Background(), adminIdentity, "r1", StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.ResolvedAt)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	t.Parallel()

	svc, repo, orders := newTestService()
	seedOrder(orders, order.StatusDelivered, nil)
	repo.byID["r1"] = &Revision{
		ID: "r1", OrderID: "o1", ClientID: "c1", Status: StatusCompleted,
	}

	_, err := svc.UpdateStatus(context.Background(), adminIdentity, "r1", StatusInProgress)
	requireAppCode(t, err, core.CodeValidationError)
}

func TestUpdateStatus_AssignmentOwnership(t *testing.T) {
	t.Parallel()

	assigned := "a1"

	cases := []struct {
		name     string
		identity *middleware.Identity
		wantDeny bool
	}{
		{"assigned admin", adminIdentity, false},
		{"other admin", otherAdmin, true},
		{"super_admin bypasses", superIdentity, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, orders := newTestService()
			seedOrder(orders, order.StatusDelivered, &assigned)
			repo.byID["r1"] = &Revision{
				ID: "r1", OrderID: "o1", ClientID: "c1", Status: StatusRequested,
			}

			_, err := svc.UpdateStatus(context.Background(), tc.identity, "r1", StatusDeclined)

			if tc.wantDeny {
				requireAppCode(t, err, core.CodeResourceAccessDenied)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestList_ClientsArePinnedToOwnRevisions(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	repo.byID["r1"] = &Revision{ID: "r1", ClientID: "c1", Status: StatusRequested}
	repo.byID["r2"] = &Revision{ID: "r2", ClientID: "c2", Status: StatusRequested}

	revisions, total, err := svc.List(context.Background(), clientIdentity, ListRevisionsParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "c1", revisions[0].ClientID)

	_, total, err = svc.List(context.Background(), superIdentity, ListRevisionsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCountOpen(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	repo.byID["r1"] = &Revision{ID: "r1", Status: StatusRequested}
	repo.byID["r2"] = &Revision{ID: "r2", Status: StatusInProgress}
	repo.byID["r3"] = &Revision{ID: "r3", Status: StatusCompleted}

	open, err := svc.CountOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, open)
}
