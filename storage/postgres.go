package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"iproperty_extractor/models"
)

// PostgresStore mirrors extracted listings into a shared database so the
// rest of the analytics stack can query them. Optional: the pipeline
// runs CSV-only when no connection string is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		listing_id TEXT PRIMARY KEY,
		source_id TEXT,
		url TEXT,
		title TEXT,
		property_type TEXT,
		tenure TEXT,
		bedroom INTEGER,
		bathroom INTEGER,
		car_park INTEGER,
		price NUMERIC,
		price_currency TEXT,
		is_rent BOOLEAN,
		built_up TEXT,
		built_up_psf TEXT,
		land_size TEXT,
		land_psf TEXT,
		furnishing TEXT,
		address TEXT,
		state TEXT,
		district TEXT,
		subarea TEXT,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		agent_name TEXT,
		agency_name TEXT,
		agency_id TEXT,
		lister_id TEXT,
		lister_phone TEXT,
		license TEXT,
		amenities TEXT,
		bumi_lot TEXT,
		listed_date TEXT,
		run_uid TEXT,
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS extract_runs (
		run_uid TEXT PRIMARY KEY,
		source_id TEXT,
		started_at TIMESTAMPTZ,
		finished_at TIMESTAMPTZ,
		status TEXT,
		pages_found INTEGER,
		pages_parsed INTEGER,
		pages_skipped INTEGER,
		errors_count INTEGER,
		artifact_url TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source_id);
	CREATE INDEX IF NOT EXISTS idx_listings_state ON listings(state, district);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) UpsertListing(ctx context.Context, sourceID, runUID string, l *models.Listing) error {
	if l.ListingID == "" {
		return fmt.Errorf("listing from %s has no listing id", l.File)
	}
	query := `
		INSERT INTO listings (
			listing_id, source_id, url, title, property_type, tenure,
			bedroom, bathroom, car_park, price, price_currency, is_rent,
			built_up, built_up_psf, land_size, land_psf, furnishing,
			address, state, district, subarea, lat, lng,
			agent_name, agency_name, agency_id, lister_id, lister_phone,
			license, amenities, bumi_lot, listed_date, run_uid, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33, NOW()
		)
		ON CONFLICT (listing_id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			property_type = EXCLUDED.property_type,
			tenure = EXCLUDED.tenure,
			bedroom = EXCLUDED.bedroom,
			bathroom = EXCLUDED.bathroom,
			car_park = EXCLUDED.car_park,
			price = EXCLUDED.price,
			price_currency = EXCLUDED.price_currency,
			is_rent = EXCLUDED.is_rent,
			built_up = EXCLUDED.built_up,
			built_up_psf = EXCLUDED.built_up_psf,
			land_size = EXCLUDED.land_size,
			land_psf = EXCLUDED.land_psf,
			furnishing = EXCLUDED.furnishing,
			address = EXCLUDED.address,
			state = EXCLUDED.state,
			district = EXCLUDED.district,
			subarea = EXCLUDED.subarea,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			agent_name = EXCLUDED.agent_name,
			agency_name = EXCLUDED.agency_name,
			agency_id = EXCLUDED.agency_id,
			lister_id = EXCLUDED.lister_id,
			lister_phone = EXCLUDED.lister_phone,
			license = EXCLUDED.license,
			amenities = EXCLUDED.amenities,
			bumi_lot = EXCLUDED.bumi_lot,
			listed_date = EXCLUDED.listed_date,
			run_uid = EXCLUDED.run_uid,
			updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query,
		l.ListingID, sourceID, l.URL, l.Title, l.PropertyType, l.Tenure,
		l.Bedroom, l.Bathroom, l.CarPark, l.Price, l.PriceCurrency, l.IsRent,
		l.BuiltUp, l.BuiltUpPSF, l.LandSize, l.LandPSF, l.Furnishing,
		l.Address, l.State, l.District, l.Subarea, l.Latitude, l.Longitude,
		l.AgentName, l.AgencyName, l.AgencyID, l.ListerID, l.ListerPhoneDigits,
		l.License, strings.Join(l.Amenities, "; "), l.BumiLot, l.ListedDate, runUID,
	)
	return err
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *models.ExtractRun) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO extract_runs (run_uid, source_id, started_at, status)
		VALUES ($1, $2, $3, $4)`,
		run.RunUID, run.SourceID, run.StartedAt, run.Status)
	return err
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *models.ExtractRun) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE extract_runs
		SET finished_at = $1, status = $2, pages_found = $3, pages_parsed = $4,
			pages_skipped = $5, errors_count = $6, artifact_url = $7
		WHERE run_uid = $8`,
		run.FinishedAt, run.Status, run.PagesFound, run.PagesParsed,
		run.PagesSkipped, run.ErrorsCount, run.ArtifactURL, run.RunUID)
	return err
}
