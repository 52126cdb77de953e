// repository.go

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/InnoTechI/skillx-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	UpdateStatus(ctx context.Context, payment *Payment) error
	List(ctx context.Context, params ListPaymentsParams) ([]Payment, int, error)
	Revenue(ctx context.Context) (*RevenueTotals, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	query := `
		INSERT INTO payments (
			id, order_id, client_id, amount_cents, currency,
			method, status, reference, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, payment, query,
		payment.ID,
		payment.OrderID,
		payment.ClientID,
		payment.AmountCents,
		payment.Currency,
		payment.Method,
		payment.Status,
		payment.Reference,
		payment.Notes,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Payment, error) {
	query := `
		SELECT id, order_id, client_id, amount_cents, currency,
		       method, status, reference, notes, created_at, updated_at
		FROM payments
		WHERE id = $1`

	var payment Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &payment, nil
}

func (r *repository) UpdateStatus(ctx context.Context, payment *Payment) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &payment.UpdatedAt, query,
		payment.ID,
		payment.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.OrderID != "" {
		conditions = append(conditions, fmt.Sprintf("order_id = $%d", argIdx))
		args = append(args, params.OrderID)
		argIdx++
	}

	if params.ClientID != "" {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, params.ClientID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Method != "" {
		conditions = append(conditions, fmt.Sprintf("method = $%d", argIdx))
		args = append(args, params.Method)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM payments WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, client_id, amount_cents, currency,
		       method, status, reference, notes, created_at, updated_at
		FROM payments
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var payments []Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}

// Revenue sums completed payments, total and current calendar month.
func (r *repository) Revenue(ctx context.Context) (*RevenueTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_cents), 0) AS total_cents,
			COALESCE(SUM(amount_cents) FILTER (
				WHERE created_at >= date_trunc('month', NOW())
			), 0) AS month_cents
		FROM payments
		WHERE status = 'completed'`

	var totals RevenueTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("revenue totals: %w", err)
	}

	return &totals, nil
}
