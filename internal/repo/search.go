package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// SearchRepo stores every successfully built search request.
type SearchRepo interface {
	// Create inserts a record and returns it with the generated id and created_at.
	Create(ctx context.Context, rec domain.SearchRecord) (domain.SearchRecord, error)

	// GetByID returns one record. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.SearchRecord, error)

	// ListPaged returns one page of records, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.SearchRecord, int64, error)
}

type pgSearchRepo struct {
	db db
}

// NewSearchRepo constructs a SearchRepo backed by the provided db connection.
func NewSearchRepo(db db) SearchRepo {
	return &pgSearchRepo{db: db}
}

const searchColumns = `id, trip_type, origin, destination, departure_date, return_date,
		       passengers, cabin_class, currency, max_connections, max_price, created_at`

func (r *pgSearchRepo) Create(ctx context.Context, rec domain.SearchRecord) (domain.SearchRecord, error) {
	q := `
		INSERT INTO searches (trip_type, origin, destination, departure_date, return_date,
		                      passengers, cabin_class, currency, max_connections, max_price)
		VALUES (@trip_type, @origin, @destination, @departure_date::date, @return_date::date,
		        @passengers, @cabin_class, @currency, @max_connections, @max_price)
		RETURNING ` + searchColumns

	req := rec.Request
	args := pgx.NamedArgs{
		"trip_type":       string(rec.TripType),
		"origin":          req.Origin,
		"destination":     req.Destination,
		"departure_date":  req.DepartureDate,
		"return_date":     req.ReturnDate, // nil becomes NULL
		"passengers":      req.Passengers,
		"cabin_class":     req.CabinClass,
		"currency":        req.Currency,
		"max_connections": req.MaxConnections,
		"max_price":       req.MaxPrice,
	}

	result, err := scanSearch(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SearchRecord{}, fmt.Errorf("repo.SearchRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgSearchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.SearchRecord, error) {
	q := `SELECT ` + searchColumns + ` FROM searches WHERE id = @id`

	result, err := scanSearch(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.SearchRecord{}, fmt.Errorf("repo.SearchRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgSearchRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.SearchRecord, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM searches`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.SearchRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + searchColumns + `
		FROM searches
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SearchRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	records := []domain.SearchRecord{}
	for rows.Next() {
		rec, err := scanSearch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.SearchRepo.ListPaged: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.SearchRepo.ListPaged: rows: %w", err)
	}
	return records, total, nil
}

// scanSearch maps one searches row into a domain.SearchRecord, converting
// the nullable columns back into omitted request fields.
func scanSearch(s scanner) (domain.SearchRecord, error) {
	var (
		rec            domain.SearchRecord
		id             pgtype.UUID
		tripType       string
		departure      pgtype.Date
		ret            pgtype.Date
		maxConnections pgtype.Int4
		maxPrice       pgtype.Float8
	)
	req := &rec.Request
	err := s.Scan(&id, &tripType, &req.Origin, &req.Destination, &departure, &ret,
		&req.Passengers, &req.CabinClass, &req.Currency, &maxConnections, &maxPrice, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SearchRecord{}, domain.ErrNotFound
		}
		return domain.SearchRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.TripType = domain.TripType(tripType)
	req.DepartureDate = departure.Time.Format(domain.DateLayout)
	if ret.Valid {
		rd := ret.Time.Format(domain.DateLayout)
		req.ReturnDate = &rd
	}
	if maxConnections.Valid {
		n := int(maxConnections.Int32)
		req.MaxConnections = &n
	}
	if maxPrice.Valid {
		p := maxPrice.Float64
		req.MaxPrice = &p
	}
	return rec, nil
}
