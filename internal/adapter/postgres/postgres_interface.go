package postgres

import (
	"context"

	"currency-converter/internal/entity"

	"github.com/jackc/pgx/v5"
)

type SnapshotRepository interface {
	StoreSnapshot(ctx context.Context, snap entity.Snapshot) error
	LoadSnapshots(ctx context.Context) ([]entity.Snapshot, error)
}

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}
