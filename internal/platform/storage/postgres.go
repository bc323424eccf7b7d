package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/storage/gen/postgres/public/table"

	pgmodels "github.com/MichalMitros/property-translation-pipeline/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

//go:embed sql/schema.sql
var schemaSQL string

// Postgres is storage for translated properties.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates properties table if it doesn't exist.
func (p Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, strings.TrimSpace(schemaSQL)); err != nil {
		return fmt.Errorf("can't migrate database: %w", err)
	}
	return nil
}

// FindByURL returns property with url or nil if there is none.
func (p Postgres) FindByURL(ctx context.Context, url string) (*models.Property, error) {
	var property pgmodels.Properties
	err := table.Properties.SELECT(table.Properties.AllColumns).
		WHERE(table.Properties.URL.EQ(pg.String(url))).
		QueryContext(ctx, p.db, &property)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get property from database: %w", err)
	}

	return FromDBProperty(&property), nil
}

// Create inserts property. Property with the same url is overwritten.
func (p Postgres) Create(ctx context.Context, listing models.TranslatedListing) (*models.Property, error) {
	columnList := table.Properties.MutableColumns.Except(table.Properties.CreatedAt)

	excludedExpressions := make([]pg.Expression, 0, len(columnList)) // converting to expression
	for _, col := range table.Properties.EXCLUDED.MutableColumns.Except(table.Properties.CreatedAt) {
		excludedExpressions = append(excludedExpressions, col)
	}

	dbProperty := ToDBProperty(&listing)
	dbProperty.UpdatedAt = p.now()

	var created pgmodels.Properties
	err := table.Properties.INSERT(columnList).
		MODEL(dbProperty).
		ON_CONFLICT(table.Properties.URL).
		DO_UPDATE(
			pg.SET(
				columnList.SET(pg.ROW(excludedExpressions...)),
			),
		).
		RETURNING(table.Properties.AllColumns).
		QueryContext(ctx, p.db, &created)
	if err != nil {
		return nil, fmt.Errorf("can't insert property into database: %w", err)
	}

	return FromDBProperty(&created), nil
}

// Update updates property with id. Returns nil if there is no such property.
func (p Postgres) Update(ctx context.Context, id int64, listing models.TranslatedListing) (*models.Property, error) {
	columnList := table.Properties.MutableColumns.Except(table.Properties.CreatedAt)

	dbProperty := ToDBProperty(&listing)
	dbProperty.UpdatedAt = p.now()

	var updated pgmodels.Properties
	err := table.Properties.UPDATE(columnList).
		MODEL(dbProperty).
		WHERE(table.Properties.ID.EQ(pg.Int64(id))).
		RETURNING(table.Properties.AllColumns).
		QueryContext(ctx, p.db, &updated)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't update property in database: %w", err)
	}

	return FromDBProperty(&updated), nil
}
