// Package repository contains data access logic separated from HTTP handlers.
// This file defines the cinema queries.  A cinema is identified publicly by
// its short code; the numeric ID only links movies to it.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// ErrCinemaNotFound is returned when a cinema cannot be found in the DB.
var ErrCinemaNotFound = errors.New("cinema not found")

// CinemaRepo encapsulates all database queries related to cinemas.  It
// depends on a sql.DB connection which should be configured elsewhere.
type CinemaRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// List returns every cinema ordered by state and name.
func (r *CinemaRepo) List(ctx context.Context) ([]model.Cinema, error) {
	const q = `SELECT id, code, name, state FROM cinemas ORDER BY state, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Cinema{}
	for rows.Next() {
		var c model.Cinema
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.State); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByCode fetches a cinema by its public code.  It returns
// ErrCinemaNotFound if no row is found.
func (r *CinemaRepo) GetByCode(ctx context.Context, code string) (*model.Cinema, error) {
	const q = `SELECT id, code, name, state FROM cinemas WHERE code = ?`
	var c model.Cinema
	if err := r.db.QueryRowContext(ctx, q, code).Scan(&c.ID, &c.Code, &c.Name, &c.State); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return &c, nil
}
