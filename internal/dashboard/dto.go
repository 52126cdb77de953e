// dto.go

package dashboard

import (
	"time"

	"github.com/InnoTechI/skillx-api/internal/order"
)

type ClientStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type OrderStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

type RevenueStats struct {
	TotalCents int64  `json:"totalCents"`
	MonthCents int64  `json:"monthCents"`
	Currency   string `json:"currency"`
}

type RevisionStats struct {
	Open int `json:"open"`
}

type MessageStats struct {
	UnreadFromClients int `json:"unreadFromClients"`
}

// Summary is the admin landing-page aggregate. Blocks that fail to
// load carry zero values rather than failing the whole response.
type Summary struct {
	Clients      ClientStats            `json:"clients"`
	Orders       OrderStats             `json:"orders"`
	Revenue      RevenueStats           `json:"revenue"`
	Revisions    RevisionStats          `json:"revisions"`
	Messages     MessageStats           `json:"messages"`
	RecentOrders []order.OrderResponse `json:"recentOrders"`
	GeneratedAt  time.Time             `json:"generatedAt"`
}
