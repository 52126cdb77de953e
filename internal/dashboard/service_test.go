// service_test.go

package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InnoTechI/skillx-api/internal/message"
	"github.com/InnoTechI/skillx-api/internal/order"
	"github.com/InnoTechI/skillx-api/internal/payment"
	"github.com/InnoTechI/skillx-api/internal/revision"
	"github.com/InnoTechI/skillx-api/internal/user"
)

type fakeUsers struct {
	counts user.ClientCounts
	err    error
}

func (f *fakeUsers) Create(context.Context, *user.User) error { return nil }
func (f *fakeUsers) GetByID(context.Context, string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUsers) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUsers) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}
func (f *fakeUsers) CountAdmins(context.Context) (int, error) { return 0, nil }
func (f *fakeUsers) CountClients(context.Context) (*user.ClientCounts, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := f.counts
	return &counts, nil
}
func (f *fakeUsers) UpdateProfile(context.Context, *user.User) error { return nil }
func (f *fakeUsers) UpdatePassword(context.Context, string, string) error {
	return nil
}
func (f *fakeUsers) SetActive(context.Context, string, bool) error { return nil }
func (f *fakeUsers) List(context.Context, user.ListUsersParams) ([]user.User, int, error) {
	return nil, 0, nil
}

type fakeOrders struct {
	byStatus map[order.Status]int
	recent   []order.Order
	err      error
}

func (f *fakeOrders) Create(context.Context, *order.Order) error { return nil }
func (f *fakeOrders) GetByID(context.Context, string) (*order.Order, error) {
	return nil, nil
}
func (f *fakeOrders) Update(context.Context, *order.Order) error { return nil }
func (f *fakeOrders) List(context.Context, order.ListOrdersParams) ([]order.Order, int, error) {
	return nil, 0, nil
}
func (f *fakeOrders) CountByStatus(context.Context) (map[order.Status]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byStatus, nil
}
func (f *fakeOrders) Recent(_ context.Context, limit int) ([]order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakePayments struct {
	totals payment.RevenueTotals
	err    error
}

func (f *fakePayments) Create(context.Context, *payment.Payment) error { return nil }
func (f *fakePayments) GetByID(context.Context, string) (*payment.Payment, error) {
	return nil, nil
}
func (f *fakePayments) UpdateStatus(context.Context, *payment.Payment) error {
	return nil
}
func (f *fakePayments) List(context.Context, payment.ListPaymentsParams) ([]payment.Payment, int, error) {
	return nil, 0, nil
}
func (f *fakePayments) Revenue(context.Context) (*payment.RevenueTotals, error) {
	if f.err != nil {
		return nil, f.err
	}
	totals := f.totals
	return &totals, nil
}

type fakeRevisions struct {
	open int
	err  error
}

func (f *fakeRevisions) Create(context.Context, *revision.Revision) error {
	return nil
}
func (f *fakeRevisions) GetByID(context.Context, string) (*revision.Revision, error) {
	return nil, nil
}
func (f *fakeRevisions) Update(context.Context, *revision.Revision) error {
	return nil
}
func (f *fakeRevisions) List(context.Context, revision.ListRevisionsParams) ([]revision.Revision, int, error) {
	return nil, 0, nil
}
func (f *fakeRevisions) CountOpen(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.open, nil
}

type fakeMessages struct {
	unread int
	err    error
}

func (f *fakeMessages) Create(context.Context, *message.Message) error { return nil }
func (f *fakeMessages) GetByID(context.Context, string) (*message.Message, error) {
	return nil, nil
}
func (f *fakeMessages) ListByOrder(context.Context, message.ListMessagesParams) ([]message.Message, int, error) {
	return nil, 0, nil
}
func (f *fakeMessages) MarkRead(context.Context, string, string) (int, error) {
	return 0, nil
}
func (f *fakeMessages) CountUnreadFromClients(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.unread, nil
}

type fixtures struct {
	users     *fakeUsers
	orders    *fakeOrders
	payments  *fakePayments
	revisions *fakeRevisions
	messages  *fakeMessages
}

func seededFixtures() *fixtures {
	return &fixtures{
		users: &fakeUsers{counts: user.ClientCounts{Total: 12, Active: 10}},
		orders: &fakeOrders{
			byStatus: map[order.Status]int{
				order.StatusPending:    3,
				order.StatusInProgress: 2,
				order.StatusCompleted:  7,
			},
			recent: []order.Order{
				{ID: "o1", OrderNumber: "SKX-AAAA1111", ClientID: "c1"},
				{ID: "o2", OrderNumber: "SKX-BBBB2222", ClientID: "c2"},
			},
		},
		payments:  &fakePayments{totals: payment.RevenueTotals{TotalCents: 250000, MonthCents: 40000}},
		revisions: &fakeRevisions{open: 4},
		messages:  &fakeMessages{unread: 6},
	}
}

func newTestService(t *testing.T, f *fixtures, cache *redis.Client) *Service {
	t.Helper()

	return NewService(Config{
		Users:     f.users,
		Orders:    f.orders,
		Payments:  f.payments,
		Revisions: f.revisions,
		Messages:  f.messages,
		Cache:     cache,
		CacheTTL:  time.Minute,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSummary_Aggregates(t *testing.T) {
	t.Parallel()

	f := seededFixtures()
	svc := newTestService(t, f, nil)

	summary := svc.Summary(context.Background())
	require.NotNil(t, summary)

	assert.Equal(t, 12, summary.Clients.Total)
	assert.Equal(t, 10, summary.Clients.Active)
	assert.Equal(t, 12, summary.Orders.Total)
	assert.Equal(t, 3, summary.Orders.ByStatus["pending"])
	assert.Equal(t, int64(250000), summary.Revenue.TotalCents)
	assert.Equal(t, int64(40000), summary.Revenue.MonthCents)
	assert.Equal(t, "USD", summary.Revenue.Currency)
	assert.Equal(t, 4, summary.Revisions.Open)
	assert.Equal(t, 6, summary.Messages.UnreadFromClients)
	assert.Len(t, summary.RecentOrders, 2)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestSummary_ServedFromCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	f := seededFixtures()
	svc := newTestService(t, f, cache)
	ctx := context.Background()

	first := svc.Summary(ctx)
	require.Equal(t, 4, first.Revisions.Open)
	assert.True(t, mr.Exists("dashboard:summary"))

	// Repositories change, but within the TTL the cached summary
	// keeps being served.
	f.revisions.open = 99
	f.messages.unread = 0

	second := svc.Summary(ctx)
	assert.Equal(t, 4, second.Revisions.Open)
	assert.Equal(t, 6, second.Messages.UnreadFromClients)

	// Once the TTL passes the next call recomputes.
	mr.FastForward(2 * time.Minute)

	third := svc.Summary(ctx)
	assert.Equal(t, 99, third.Revisions.Open)
	assert.Equal(t, 0, third.Messages.UnreadFromClients)
}

func TestSummary_CacheUnavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	// A dead cache never fails the dashboard.
	mr.Close()

	f := seededFixtures()
	svc := newTestService(t, f, cache)

	summary := svc.Summary(context.Background())
	require.NotNil(t, summary)
	assert.Equal(t, 12, summary.Clients.Total)
	assert.Equal(t, 4, summary.Revisions.Open)
}

func TestSummary_FailingBlocksDegradeToZero(t *testing.T) {
	t.Parallel()

	f := seededFixtures()
	boom := errors.New("aggregate query timed out")
	f.payments.err = boom
	f.orders.err = boom

	svc := newTestService(t, f, nil)

	summary := svc.Summary(context.Background())
	require.NotNil(t, summary)

	// Broken blocks carry zero values.
	assert.Equal(t, int64(0), summary.Revenue.TotalCents)
	assert.Equal(t, "USD", summary.Revenue.Currency)
	assert.Equal(t, 0, summary.Orders.Total)
	assert.NotNil(t, summary.Orders.ByStatus)
	assert.NotNil(t, summary.RecentOrders)

	// Healthy blocks are unaffected.
	assert.Equal(t, 12, summary.Clients.Total)
	assert.Equal(t, 4, summary.Revisions.Open)
	assert.Equal(t, 6, summary.Messages.UnreadFromClients)
}
