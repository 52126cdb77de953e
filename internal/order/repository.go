// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/InnoTechI/skillx-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, order *Order) error
	List(ctx context.Context, params ListOrdersParams) ([]Order, int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	Recent(ctx context.Context, limit int) ([]Order, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, client_id, service_type, package_tier,
			amount_cents, currency, requirements
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING status, created_at, updated_at`

	err := r.db.GetContext(ctx, order, query,
		order.ID,
		order.OrderNumber,
		order.ClientID,
		order.ServiceType,
		order.PackageTier,
		order.AmountCents,
		order.Currency,
		order.Requirements,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
		SELECT id, order_number, client_id, assigned_admin_id,
		       service_type, package_tier, status, amount_cents, currency,
		       requirements, created_at, updated_at
		FROM orders
		WHERE id = $1`

	var order Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &order, nil
}

func (r *repository) Update(ctx context.Context, order *Order) error {
	query := `
		UPDATE orders
		SET status = $2, assigned_admin_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &order.UpdatedAt, query,
		order.ID,
		order.Status,
		order.AssignedAdminID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update order: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.ClientID != "" {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, params.ClientID)
		argIdx++
	}

	if params.AssignedTo != "" {
		conditions = append(conditions,
			fmt.Sprintf("assigned_admin_id = $%d", argIdx))
		args = append(args, params.AssignedTo)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.ServiceType != "" {
		conditions = append(conditions,
			fmt.Sprintf("service_type = $%d", argIdx))
		args = append(args, params.ServiceType)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM orders WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, order_number, client_id, assigned_admin_id,
		       service_type, package_tier, status, amount_cents, currency,
		       requirements, created_at, updated_at
		FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`

	rows := []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}{}

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}

	counts := make(map[Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *repository) Recent(
	ctx context.Context,
	limit int,
) ([]Order, error) {
	query := `
		SELECT id, order_number, client_id, assigned_admin_id,
		       service_type, package_tier, status, amount_cents, currency,
		       requirements, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	return orders, nil
}
