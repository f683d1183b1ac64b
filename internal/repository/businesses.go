package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/lead-scanner/internal/dto"
	"github.com/octobees/lead-scanner/internal/entity"
)

// pgxPool is the subset of pgxpool.Pool the repositories use, extracted so
// tests can stub the database.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// BusinessesRepository describes persistence operations for scanned businesses.
type BusinessesRepository interface {
	Upsert(ctx context.Context, business *entity.Business) error
	SaveScan(ctx context.Context, businesses []entity.Business) error
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Business, error)
}

// SaveResult summarises how many rows a scan save inserted or refreshed.
type SaveResult struct {
	Inserted int
	Updated  int
	Total    int
}

// PGXBusinessesRepository implements BusinessesRepository using pgx.
type PGXBusinessesRepository struct {
	pool pgxPool
}

// NewPGXBusinessesRepository wires a pgx backed repository.
func NewPGXBusinessesRepository(pool *pgxpool.Pool) *PGXBusinessesRepository {
	return &PGXBusinessesRepository{pool: pool}
}

const upsertSQL = `
        INSERT INTO businesses (
            id,
            scan_run_id,
            name,
            industry,
            address,
            phone,
            email,
            website,
            has_website,
            facebook,
            instagram,
            linkedin,
            twitter,
            rating,
            reviews,
            source,
            scraped_at,
            updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW())
        ON CONFLICT (name, address) DO UPDATE SET
            scan_run_id = COALESCE(EXCLUDED.scan_run_id, businesses.scan_run_id),
            industry = EXCLUDED.industry,
            phone = EXCLUDED.phone,
            email = EXCLUDED.email,
            website = EXCLUDED.website,
            has_website = EXCLUDED.has_website,
            facebook = EXCLUDED.facebook,
            instagram = EXCLUDED.instagram,
            linkedin = EXCLUDED.linkedin,
            twitter = EXCLUDED.twitter,
            rating = EXCLUDED.rating,
            reviews = EXCLUDED.reviews,
            source = EXCLUDED.source,
            scraped_at = COALESCE(EXCLUDED.scraped_at, businesses.scraped_at),
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// Upsert inserts or refreshes one business keyed by name and address.
func (r *PGXBusinessesRepository) Upsert(ctx context.Context, business *entity.Business) error {
	if business == nil {
		return fmt.Errorf("business payload is nil")
	}
	_, err := r.upsertOne(ctx, r.pool, business)
	return err
}

type execQuerier interface {
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func (r *PGXBusinessesRepository) upsertOne(ctx context.Context, q execQuerier, b *entity.Business) (bool, error) {
	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, err := q.Query(ctx, upsertSQL,
		id,
		b.ScanRunID,
		b.Name,
		b.Industry,
		b.Address,
		stringOrNil(b.Phone),
		stringOrNil(b.Email),
		stringOrNil(b.Website),
		b.HasWebsite,
		stringOrNil(b.Facebook),
		stringOrNil(b.Instagram),
		stringOrNil(b.LinkedIn),
		stringOrNil(b.Twitter),
		floatOrNil(b.Rating),
		intOrNil(b.Reviews),
		string(b.Source),
		b.ScrapedAt,
	)
	if err != nil {
		return false, fmt.Errorf("upsert business %q: %w", b.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, fmt.Errorf("upsert business %q: %w", b.Name, err)
		}
		return false, fmt.Errorf("upsert business %q: no result returned", b.Name)
	}
	var inserted bool
	if err := rows.Scan(&inserted); err != nil {
		return false, fmt.Errorf("scan upsert result: %w", err)
	}
	return inserted, nil
}

// SaveScan persists a whole scan batch inside one transaction.
func (r *PGXBusinessesRepository) SaveScan(ctx context.Context, businesses []entity.Business) error {
	_, err := r.SaveScanCounted(ctx, businesses)
	return err
}

// SaveScanCounted is SaveScan with an insert/update breakdown.
func (r *PGXBusinessesRepository) SaveScanCounted(ctx context.Context, businesses []entity.Business) (SaveResult, error) {
	var result SaveResult
	if len(businesses) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start save tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range businesses {
		inserted, err := r.upsertOne(ctx, tx, &businesses[i])
		if err != nil {
			return result, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit save tx: %w", err)
	}
	return result, nil
}

// List retrieves businesses matching the filter, best leads first.
func (r *PGXBusinessesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Business, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`
        SELECT
            id,
            scan_run_id,
            name,
            industry,
            address,
            phone,
            email,
            website,
            has_website,
            facebook,
            instagram,
            linkedin,
            twitter,
            rating,
            reviews,
            source,
            scraped_at,
            created_at,
            updated_at
        FROM businesses
    `)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Industry != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(industry) = LOWER($%d)", idx))
		args = append(args, filter.Industry)
		idx++
	}
	if filter.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}
	if filter.MinRating != nil {
		clauses = append(clauses, fmt.Sprintf("rating >= $%d", idx))
		args = append(args, *filter.MinRating)
		idx++
	}
	switch strings.ToLower(filter.WebsiteStatus) {
	case "missing":
		clauses = append(clauses, "has_website = FALSE")
	case "available":
		clauses = append(clauses, "has_website = TRUE")
	}
	if filter.LatestRunOnly && filter.ScanRunID == nil {
		runQuery := "SELECT scan_run_id FROM businesses WHERE scan_run_id IS NOT NULL GROUP BY scan_run_id ORDER BY MAX(scraped_at) DESC LIMIT 1"
		var latestRunID sql.NullString
		if err := r.pool.QueryRow(ctx, runQuery).Scan(&latestRunID); err != nil {
			if err != pgx.ErrNoRows {
				return nil, fmt.Errorf("determine latest scan run: %w", err)
			}
		} else if latestRunID.Valid {
			parsed, parseErr := uuid.Parse(latestRunID.String)
			if parseErr != nil {
				return nil, fmt.Errorf("parse latest scan run id: %w", parseErr)
			}
			filter.ScanRunID = &parsed
		}
	}
	if filter.ScanRunID != nil {
		clauses = append(clauses, fmt.Sprintf("scan_run_id = $%d", idx))
		args = append(args, *filter.ScanRunID)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	// Leads without a working site come first; they are what the scan is for.
	orderClause := "has_website ASC, rating DESC NULLS LAST, reviews DESC NULLS LAST, name ASC"
	if strings.EqualFold(filter.Sort, "recent") {
		orderClause = "updated_at DESC, name ASC"
	}
	baseQuery.WriteString(" ORDER BY ")
	baseQuery.WriteString(orderClause)

	if filter.Limit > 0 {
		baseQuery.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	} else {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		perPage := filter.PerPage
		if perPage <= 0 {
			perPage = 20
		}
		if perPage > 100 {
			perPage = 100
		}
		offset := (page - 1) * perPage
		baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
		args = append(args, perPage, offset)
	}

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	return scanBusinesses(rows)
}

func scanBusinesses(rows pgx.Rows) ([]entity.Business, error) {
	var businesses []entity.Business
	for rows.Next() {
		var (
			b         entity.Business
			scanRunID sql.NullString
			address   sql.NullString
			phone     sql.NullString
			email     sql.NullString
			website   sql.NullString
			facebook  sql.NullString
			instagram sql.NullString
			linkedin  sql.NullString
			twitter   sql.NullString
			rating    sql.NullFloat64
			reviews   sql.NullInt64
			source    string
			scrapedAt sql.NullTime
		)

		err := rows.Scan(
			&b.ID,
			&scanRunID,
			&b.Name,
			&b.Industry,
			&address,
			&phone,
			&email,
			&website,
			&b.HasWebsite,
			&facebook,
			&instagram,
			&linkedin,
			&twitter,
			&rating,
			&reviews,
			&source,
			&scrapedAt,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}

		if scanRunID.Valid {
			parsed, err := uuid.Parse(scanRunID.String)
			if err != nil {
				return nil, fmt.Errorf("parse scan_run_id: %w", err)
			}
			b.ScanRunID = &parsed
		}
		b.Address = address.String
		b.Phone = phone.String
		b.Email = email.String
		b.Website = website.String
		b.Facebook = facebook.String
		b.Instagram = instagram.String
		b.LinkedIn = linkedin.String
		b.Twitter = twitter.String
		if rating.Valid {
			val := rating.Float64
			b.Rating = &val
		}
		if reviews.Valid {
			cast := int(reviews.Int64)
			b.Reviews = &cast
		}
		b.Source = entity.Source(source)
		if scrapedAt.Valid {
			ts := scrapedAt.Time
			b.ScrapedAt = &ts
		}

		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return businesses, nil
}

func stringOrNil(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func floatOrNil(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
