package exhibition

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("exhibition not found")

type Repository interface {
	Create(ctx context.Context, e *Exhibition) error
	GetByID(ctx context.Context, id int64) (*Exhibition, error)
	List(ctx context.Context) ([]Exhibition, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, e *Exhibition) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if e.AvailableSlots == 0 {
		e.AvailableSlots = e.TotalSlots
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO exhibitions (title, description, location, start_date, end_date,
		                         ticket_price, total_slots, available_slots, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`, e.Title, e.Description, e.Location, e.StartDate, e.EndDate,
		e.TicketPrice, e.TotalSlots, e.AvailableSlots, e.ImageURL).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Exhibition, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var e Exhibition
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, location, start_date::text, end_date::text,
		       ticket_price::text, total_slots, available_slots, image_url, created_at
		FROM exhibitions WHERE id=$1
	`, id).Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDate, &e.EndDate,
		&e.TicketPrice, &e.TotalSlots, &e.AvailableSlots, &e.ImageURL, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Exhibition, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, location, start_date::text, end_date::text,
		       ticket_price::text, total_slots, available_slots, image_url, created_at
		FROM exhibitions
		ORDER BY start_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exhibition
	for rows.Next() {
		var e Exhibition
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDate, &e.EndDate,
			&e.TicketPrice, &e.TotalSlots, &e.AvailableSlots, &e.ImageURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
