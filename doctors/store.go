package doctors

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"

	"parshealth.com/triage/logger"
	"parshealth.com/triage/types"
)

// Store is what the referral resolver needs from the doctor roster.
type Store interface {
	ByDepartment(ctx context.Context, department types.Department) ([]types.Doctor, error)
	Close()
}

type Config struct {
	DatabaseURL string `envconfig:"PARS_DB_URL" required:"true"`
}

// PGStore reads doctor rosters from Postgres. Each department has its
// own table, named by the lower-cased department identifier.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context) (*PGStore, error) {
	parsLogger := logger.NewLogger("Doctor store")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		parsLogger.Err(err).Msg("Could not read env config")
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		parsLogger.Err(err).Msg("Could not create connection pool")
		return nil, fmt.Errorf("failed to connect to doctor store: %w", err)
	}
	parsLogger.Info().Msg("Doctor store connected")
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) ByDepartment(ctx context.Context, department types.Department) ([]types.Doctor, error) {
	// Department identifiers come from the fixed taxonomy, never from
	// raw user input, so interpolating the table name is safe.
	query := fmt.Sprintf(
		`SELECT doc_name, experience_years, is_available FROM "%s"`,
		department.StoreName(),
	)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query for %s failed: %w", department, err)
	}
	defer rows.Close()

	var result []types.Doctor
	for rows.Next() {
		var doc types.Doctor
		if err := rows.Scan(&doc.Name, &doc.Experience, &doc.Available); err != nil {
			return nil, fmt.Errorf("scan for %s failed: %w", department, err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows for %s failed: %w", department, err)
	}
	return result, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}
