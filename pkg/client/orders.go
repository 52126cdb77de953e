// orders.go

package client

import (
	"context"
	"net/http"
	"net/url"
)

// CreateOrder places an order for the signed-in client. Pricing is
// decided server-side from the service and tier.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error) {
	var order Order
	if _, err := c.authedCall(ctx, http.MethodPost, "/api/orders", nil, params, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders lists the caller's own orders; admin-class sessions see all
// orders.
func (c *Client) Orders(ctx context.Context, opts OrderListOptions) ([]Order, *Pagination, error) {
	query := url.Values{}
	intQuery(query, "page", opts.Page)
	intQuery(query, "pageSize", opts.PageSize)
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.ServiceType != "" {
		query.Set("serviceType", opts.ServiceType)
	}

	var orders []Order
	page, err := c.authedCall(ctx, http.MethodGet, "/api/orders", query, nil, &orders)
	if err != nil {
		return nil, nil, err
	}

	return orders, page, nil
}

func (c *Client) Order(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if _, err := c.authedCall(ctx, http.MethodGet, "/api/orders/"+orderID, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder withdraws one of the caller's own pending orders.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if _, err := c.authedCall(ctx, http.MethodPost, "/api/orders/"+orderID+"/cancel", nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
