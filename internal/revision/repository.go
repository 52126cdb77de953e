// repository.go

package revision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/InnoTechI/skillx-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, revision *Revision) error
	GetByID(ctx context.Context, id string) (*Revision, error)
	Update(ctx context.Context, revision *Revision) error
	List(ctx context.Context, params ListRevisionsParams) ([]Revision, int, error)
	CountOpen(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, revision *Revision) error {
	query := `
		INSERT INTO revisions (id, order_id, client_id, details)
		VALUES ($1, $2, $3, $4)
		RETURNING status, created_at, updated_at`

	err := r.db.GetContext(ctx, revision, query,
		revision.ID,
		revision.OrderID,
		revision.ClientID,
		revision.Details,
	)
	if err != nil {
		return fmt.Errorf("create revision: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Revision, error) {
	query := `
		SELECT id, order_id, client_id, details, status, resolved_at,
		       created_at, updated_at
		FROM revisions
		WHERE id = $1`

	var revision Revision
	err := r.db.GetContext(ctx, &revision, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get revision: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get revision: %w", err)
	}

	return &revision, nil
}

func (r *repository) Update(ctx context.Context, revision *Revision) error {
	query := `
		UPDATE revisions
		SET status = $2, resolved_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &revision.UpdatedAt, query,
		revision.ID,
		revision.Status,
		revision.ResolvedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update revision: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update revision: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListRevisionsParams,
) ([]Revision, int, error) {
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

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM revisions WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count revisions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, client_id, details, status, resolved_at,
		       created_at, updated_at
		FROM revisions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var revisions []Revision
	if err := r.db.SelectContext(ctx, &revisions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list revisions: %w", err)
	}

	return revisions, total, nil
}

// CountOpen counts revisions still awaiting admin action.
func (r *repository) CountOpen(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM revisions
		WHERE status IN ('requested', 'in_progress')`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count open revisions: %w", err)
	}

	return count, nil
}
