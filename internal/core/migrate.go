// migrate.go

package core

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/InnoTechI/skillx-api/migrations"
)

// RunMigrations applies the embedded schema migrations. It runs during
// bootstrap, before the server accepts traffic, so every request sees
// the uniqueness constraints the auth flow depends on.
func RunMigrations(ctx context.Context, db *Database) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
