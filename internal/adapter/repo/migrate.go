package repo

import (
	"context"
	"fmt"

	"bloodlink/internal/infra"
	"bloodlink/internal/sqlinline"
)

// Migrate applies the idempotent schema statements in order. It stops at the
// first failure.
func Migrate(ctx context.Context, db infra.SQLExecutor) error {
	for i, stmt := range sqlinline.Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
