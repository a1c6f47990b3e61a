package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/logx"
	"rent_radar/pkg/lox"
)

type ScoredListingRepository struct {
	db *sqlx.DB
}

func NewScoredListingRepository(db *sqlx.DB) *ScoredListingRepository {
	return &ScoredListingRepository{db: db}
}

func (r *ScoredListingRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}
	return nil
}

// SaveBatch сохраняет весь прогон атомарно, в порядке ранжирования.
func (r *ScoredListingRepository) SaveBatch(ctx context.Context, batch entity.ScoredBatch) error {
	if len(batch.Listings) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO scored_listings (
				run_id, profile, position, listing_id, url, title, price, area, bedrooms, bathrooms,
				lat, lng, ppsqft, travel, scores, score, considered, in_top, posted_at, datestr, created_at
			) VALUES (
				:run_id, :profile, :position, :listing_id, :url, :title, :price, :area, :bedrooms, :bathrooms,
				:lat, :lng, :ppsqft, :travel, :scores, :score, :considered, :in_top, :posted_at, :datestr, :created_at
			)
			ON CONFLICT (run_id, listing_id) DO NOTHING`

		var skipped int

		for i, l := range batch.Listings {
			schema, err := fromScored(batch, i, l, i < len(batch.Top))
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal scored listing")
			}

			res, err := tx.NamedExecContext(ctx, query, schema)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed at index %d", i))
			}

			if n, err := res.RowsAffected(); err == nil && n == 0 {
				skipped++
				logger(ctx).Warn("duplicate listing skipped",
					logx.FieldRunID, batch.RunID,
					logx.FieldListingID, l.ID,
					logx.FieldPosition, i,
				)
			}
		}

		if skipped > 0 {
			logger(ctx).Warn("batch saved with skipped rows", logx.FieldRunID, batch.RunID, logx.FieldRows, skipped)
		}

		return nil
	})
}

// LatestBatch собирает последний прогон профиля.
func (r *ScoredListingRepository) LatestBatch(ctx context.Context, profile string) (entity.ScoredBatch, error) {
	var head struct {
		RunID     string       `db:"run_id"`
		CreatedAt sql.NullTime `db:"created_at"`
	}

	err := r.db.GetContext(ctx, &head, `
		SELECT run_id, created_at
		FROM scored_listings
		WHERE profile = $1
		ORDER BY created_at DESC
		LIMIT 1`, profile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ScoredBatch{}, domain.NewError(errcodes.DigestNotFound, "no batch for profile "+profile)
		}
		return entity.ScoredBatch{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get latest run")
	}

	var rows []scoredListingSchema
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, profile, position, listing_id, url, title, price, area, bedrooms, bathrooms,
		       lat, lng, ppsqft, travel, scores, score, considered, in_top, posted_at, datestr, created_at
		FROM scored_listings
		WHERE run_id = $1
		ORDER BY position`, head.RunID); err != nil {
		return entity.ScoredBatch{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get scored listings")
	}

	listings, err := lox.MapErr(rows, func(row scoredListingSchema) (entity.ScoredListing, error) {
		return row.toDomain()
	})
	if err != nil {
		return entity.ScoredBatch{}, domain.WrapError(err, errcodes.InternalServerError, "failed to convert scored listing")
	}

	batch := entity.ScoredBatch{
		RunID:     head.RunID,
		Profile:   profile,
		Listings:  listings,
		CreatedAt: head.CreatedAt.Time,
	}

	for _, row := range rows {
		if row.Considered {
			batch.Considered = append(batch.Considered, row.URL)
		}
		if row.InTop {
			batch.Top = append(batch.Top, row.URL)
		}
	}

	return batch, nil
}
