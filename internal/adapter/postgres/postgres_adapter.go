package postgres

import (
	"context"
	"fmt"
	"sort"

	"currency-converter/internal/entity"
	"currency-converter/pkg/money"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const snapshotTable = "exchange_rate_snapshots"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type SnapshotRepo struct {
	pool   Pool
	logger *logrus.Logger
}

func NewSnapshotRepo(pool Pool, logger *logrus.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		pool:   pool,
		logger: logger,
	}
}

// StoreSnapshot replaces every stored rate for snap.Base in one transaction.
func (r *SnapshotRepo) StoreSnapshot(ctx context.Context, snap entity.Snapshot) error {
	log := r.logger.WithField("base", snap.Base)

	if len(snap.Rates) == 0 {
		log.Debug("Empty snapshot, nothing to store")
		return nil
	}

	deleteQuery, deleteArgs, err := psql.Delete(snapshotTable).
		Where(sq.Eq{"base_code": snap.Base}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete for %s: %w", snap.Base, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(deleteQuery, deleteArgs...)

	fetchedAt := snap.FetchedAt.UTC()
	for _, quote := range sortedCodes(snap.Rates) {
		query, args, err := psql.Insert(snapshotTable).
			Columns("base_code", "quote_code", "rate", "fetched_at").
			Values(snap.Base, quote, snap.Rates[quote], fetchedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert for %s/%s: %w", snap.Base, quote, err)
		}
		batch.Queue(query, args...)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("begin tx: %w", err)
	}

	br := tx.SendBatch(ctx, batch)

	var batchErrs error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			batchErrs = multierr.Append(batchErrs, err)
			log.WithError(err).Errorf("Failed batch exec for statement %d", i)
		}
	}

	if err := br.Close(); err != nil {
		batchErrs = multierr.Append(batchErrs, err)
		log.WithError(err).Error("Failed to close batch results")
	}

	if batchErrs != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.WithError(rbErr).Error("Failed to rollback tx after batch errors")
		}
		return fmt.Errorf("batch exec/close errors: %w", batchErrs)
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Error("Failed to commit tx")
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Debugf("Stored snapshot with %d rates", len(snap.Rates))
	return nil
}

func (r *SnapshotRepo) LoadSnapshots(ctx context.Context) ([]entity.Snapshot, error) {
	query, args, err := psql.
		Select("base_code", "quote_code", "rate", "fetched_at").
		From(snapshotTable).
		OrderBy("base_code", "quote_code").
		ToSql()
	if err != nil {
		r.logger.WithError(err).Error("Failed to build select query")
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query snapshots")
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []entity.Snapshot
	index := make(map[string]int)
	for rows.Next() {
		var (
			base, quote string
			row         entity.Snapshot
			rate        float64
		)
		if err := rows.Scan(&base, &quote, &rate, &row.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		i, ok := index[base]
		if !ok {
			row.Base = base
			row.Rates = money.RateTable{}
			snapshots = append(snapshots, row)
			i = len(snapshots) - 1
			index[base] = i
		}
		if row.FetchedAt.Before(snapshots[i].FetchedAt) {
			snapshots[i].FetchedAt = row.FetchedAt
		}
		snapshots[i].Rates[quote] = rate
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("Failed to iterate snapshot rows")
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	r.logger.WithField("bases", len(snapshots)).Info("Loaded rate snapshots")
	return snapshots, nil
}

func sortedCodes(rates money.RateTable) []string {
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
