// service.go

package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/InnoTechI/skillx-api/internal/message"
	"github.com/InnoTechI/skillx-api/internal/order"
	"github.com/InnoTechI/skillx-api/internal/payment"
	"github.com/InnoTechI/skillx-api/internal/revision"
	"github.com/InnoTechI/skillx-api/internal/user"
)

const (
	cacheKey        = "dashboard:summary"
	defaultCacheTTL = 30 * time.Second
	recentOrderSize = 5
)

// Service assembles the admin dashboard. Each block is queried
// independently and a failing block degrades to zero values, so a
// slow or broken aggregate never takes the whole dashboard down. The
// summary is cached in redis best-effort; cache errors fall through
// to direct queries.
type Service struct {
	users     user.Repository
	orders    order.Repository
	payments  payment.Repository
	revisions revision.Repository
	messages  message.Repository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *slog.Logger
}

type Config struct {
	Users     user.Repository
	Orders    order.Repository
	Payments  payment.Repository
	Revisions revision.Repository
	Messages  message.Repository
	Cache     *redis.Client
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

func NewService(cfg Config) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:     cfg.Users,
		orders:    cfg.Orders,
		payments:  cfg.Payments,
		revisions: cfg.Revisions,
		messages:  cfg.Messages,
		cache:     cfg.Cache,
		cacheTTL:  ttl,
		logger:    logger,
	}
}

func (s *Service) Summary(ctx context.Context) *Summary {
	if cached := s.fromCache(ctx); cached != nil {
		return cached
	}

	summary := &Summary{
		Clients:      s.clientStats(ctx),
		Orders:       s.orderStats(ctx),
		Revenue:      s.revenueStats(ctx),
		Revisions:    s.revisionStats(ctx),
		Messages:     s.messageStats(ctx),
		RecentOrders: s.recentOrders(ctx),
		GeneratedAt:  time.Now().UTC(),
	}

	s.storeCache(ctx, summary)

	return summary
}

func (s *Service) clientStats(ctx context.Context) ClientStats {
	counts, err := s.users.CountClients(ctx)
	if err != nil {
		s.warnBlock("clients", err)
		return ClientStats{}
	}
	return ClientStats{Total: counts.Total, Active: counts.Active}
}

func (s *Service) orderStats(ctx context.Context) OrderStats {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		s.warnBlock("orders", err)
		return OrderStats{ByStatus: map[string]int{}}
	}

	stats := OrderStats{ByStatus: make(map[string]int, len(counts))}
	for status, count := range counts {
		stats.ByStatus[string(status)] = count
		stats.Total += count
	}
	return stats
}

func (s *Service) revenueStats(ctx context.Context) RevenueStats {
	totals, err := s.payments.Revenue(ctx)
	if err != nil {
		s.warnBlock("revenue", err)
		return RevenueStats{Currency: "USD"}
	}
	return RevenueStats{
		TotalCents: totals.TotalCents,
		MonthCents: totals.MonthCents,
		Currency:   "USD",
	}
}

func (s *Service) revisionStats(ctx context.Context) RevisionStats {
	open, err := s.revisions.CountOpen(ctx)
	if err != nil {
		s.warnBlock("revisions", err)
		return RevisionStats{}
	}
	return RevisionStats{Open: open}
}

func (s *Service) messageStats(ctx context.Context) MessageStats {
	unread, err := s.messages.CountUnreadFromClients(ctx)
	if err != nil {
		s.warnBlock("messages", err)
		return MessageStats{}
	}
	return MessageStats{UnreadFromClients: unread}
}

func (s *Service) recentOrders(ctx context.Context) []order.OrderResponse {
	recent, err := s.orders.Recent(ctx, recentOrderSize)
	if err != nil {
		s.warnBlock("recent_orders", err)
		return []order.OrderResponse{}
	}
	return order.ToOrderResponseList(recent)
}

func (s *Service) warnBlock(block string, err error) {
	s.logger.Warn("dashboard block degraded to zero values",
		"block", block,
		"error", err,
	)
}

func (s *Service) fromCache(ctx context.Context) *Summary {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("dashboard cache read failed", "error", err)
		}
		return nil
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}

	return &summary
}

func (s *Service) storeCache(ctx context.Context, summary *Summary) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("dashboard cache write failed", "error", err)
	}
}
