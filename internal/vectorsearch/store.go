// Package vectorsearch retrieves catalog entries by embedding
// similarity from Postgres with the pgvector extension. It backs the
// semantic retrieval strategy; when no database is configured the bot
// falls back to lexical matching over the JSON catalog.
package vectorsearch

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/hilacarreon/vecinito/internal/catalog"
)

// Store runs similarity queries against the comercios table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SearchSimilar returns the topK entries closest to the query
// embedding by cosine distance. When zone is non-empty, results are
// restricted to it.
func (s *Store) SearchSimilar(ctx context.Context, embedding []float32, zone string, topK int) ([]catalog.Entry, error) {
	query := `
		SELECT nombre, categoria, rubro, zona, direccion, horario,
		       contacto, tags, maps_url, experiencia, lat, lon
		FROM comercios
		WHERE embedding IS NOT NULL`
	args := []any{pgvector.NewVector(embedding), topK}
	if zone != "" {
		query += ` AND zona = $3`
		args = append(args, zone)
	}
	query += `
		ORDER BY embedding <=> $1
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(
			&e.Name, &e.Category, &e.Trade, &e.Zone, &e.Address, &e.Hours,
			&e.Contact, &e.Tags, &e.MapsURL, &e.Experience, &e.Lat, &e.Lon,
		); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	return entries, nil
}

// Upsert inserts or refreshes an entry with its embedding. The loader
// uses it to sync the JSON catalog into Postgres.
func (s *Store) Upsert(ctx context.Context, e catalog.Entry, embedding []float32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO comercios
			(nombre, categoria, rubro, zona, direccion, horario,
			 contacto, tags, maps_url, experiencia, lat, lon, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (nombre) DO UPDATE SET
			categoria = EXCLUDED.categoria, rubro = EXCLUDED.rubro,
			zona = EXCLUDED.zona, direccion = EXCLUDED.direccion,
			horario = EXCLUDED.horario, contacto = EXCLUDED.contacto,
			tags = EXCLUDED.tags, maps_url = EXCLUDED.maps_url,
			experiencia = EXCLUDED.experiencia, lat = EXCLUDED.lat,
			lon = EXCLUDED.lon, embedding = EXCLUDED.embedding`,
		e.Name, e.Category, e.Trade, e.Zone, e.Address, e.Hours,
		e.Contact, e.Tags, e.MapsURL, e.Experience, e.Lat, e.Lon,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("upserting entry: %w", err)
	}
	return nil
}

// Count reports how many entries the table holds. Used by startup
// checks to decide whether an initial sync is needed.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM comercios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}
