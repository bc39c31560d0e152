package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// PlaceRepo reads the operator-maintained place list that is merged in
// front of the built-in catalog.
type PlaceRepo interface {
	// List returns all enabled places ordered by rank, then code.
	List(ctx context.Context) ([]domain.Place, error)

	// Upsert inserts a place or overwrites the row with the same (code, city).
	Upsert(ctx context.Context, p domain.Place, rank int) error
}

type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

func (r *pgPlaceRepo) List(ctx context.Context) ([]domain.Place, error) {
	const q = `
		SELECT code, display_name, city, country, kind
		FROM places
		WHERE enabled
		ORDER BY rank, code`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.List: %w", err)
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		var (
			p    domain.Place
			kind string
		)
		if err := rows.Scan(&p.Code, &p.DisplayName, &p.City, &p.Country, &kind); err != nil {
			return nil, fmt.Errorf("repo.PlaceRepo.List: scan: %w", err)
		}
		p.Kind = domain.PlaceKind(kind)
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.List: rows: %w", err)
	}
	return places, nil
}

func (r *pgPlaceRepo) Upsert(ctx context.Context, p domain.Place, rank int) error {
	const q = `
		INSERT INTO places (code, display_name, city, country, kind, rank)
		VALUES (@code, @display_name, @city, @country, @kind, @rank)
		ON CONFLICT (code, city) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    country      = EXCLUDED.country,
		    kind         = EXCLUDED.kind,
		    rank         = EXCLUDED.rank,
		    enabled      = true`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"code":         p.Code,
		"display_name": p.DisplayName,
		"city":         p.City,
		"country":      p.Country,
		"kind":         string(p.Kind),
		"rank":         rank,
	})
	if err != nil {
		return fmt.Errorf("repo.PlaceRepo.Upsert: %w", err)
	}
	return nil
}
