// Package artwork provides the repository interface and PostgreSQL
// implementation for the gallery catalog.
package artwork

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("artwork not found")

type Repository interface {
	Create(ctx context.Context, a *Artwork) error
	GetByID(ctx context.Context, id int64) (*Artwork, error)
	List(ctx context.Context) ([]Artwork, error)
	Update(ctx context.Context, a *Artwork) error
	// Delete removes the catalog row only. Orders referencing the artwork
	// are left in place.
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, a *Artwork) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if a.Status == "" {
		a.Status = StatusAvailable
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO artworks (title, artist, description, price, image_url, category, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, a.Title, a.Artist, a.Description, a.Price, a.ImageURL, a.Category, a.Status).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Artwork, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Artwork
	err := r.db.QueryRow(ctx, `
		SELECT id, title, artist, description, price::text, image_url, category, status, created_at
		FROM artworks WHERE id=$1
	`, id).Scan(&a.ID, &a.Title, &a.Artist, &a.Description, &a.Price, &a.ImageURL, &a.Category, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Artwork, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, title, artist, description, price::text, image_url, category, status, created_at
		FROM artworks
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Artwork
	for rows.Next() {
		var a Artwork
		if err := rows.Scan(&a.ID, &a.Title, &a.Artist, &a.Description, &a.Price,
			&a.ImageURL, &a.Category, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, a *Artwork) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE artworks
		SET title       = COALESCE(NULLIF($2, ''), title),
		    artist      = COALESCE(NULLIF($3, ''), artist),
		    description = COALESCE(NULLIF($4, ''), description),
		    price       = COALESCE(NULLIF($5, '')::numeric, price),
		    image_url   = COALESCE(NULLIF($6, ''), image_url),
		    category    = COALESCE(NULLIF($7, ''), category),
		    status      = COALESCE(NULLIF($8, ''), status)
		WHERE id = $1
	`, a.ID, a.Title, a.Artist, a.Description, a.Price, a.ImageURL, a.Category, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM artworks WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
