package storagetesting

import (
	"database/sql"
	"os"
	"testing"

	pgmodels "github.com/MichalMitros/property-translation-pipeline/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/storage/gen/postgres/public/table"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB. Test is skipped when DATABASE_URL is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// InsertProperties is a helper test function to insert properties.
// Returns inserted properties with their ids.
func InsertProperties(t *testing.T, queryable qrm.Queryable, properties ...pgmodels.Properties) []pgmodels.Properties {
	t.Helper()

	if len(properties) == 0 {
		return nil
	}

	inserted := []pgmodels.Properties{}
	err := table.Properties.INSERT(table.Properties.MutableColumns.Except(table.Properties.CreatedAt, table.Properties.UpdatedAt)).
		MODELS(properties).
		RETURNING(table.Properties.AllColumns).
		Query(queryable, &inserted)
	if err != nil {
		t.Fatal("can't insert properties", err)
	}

	return inserted
}

// GetProperties is a helper test function to get all properties ordered by id.
func GetProperties(t *testing.T, queryable qrm.Queryable) []pgmodels.Properties {
	t.Helper()

	properties := []pgmodels.Properties{}
	err := table.Properties.SELECT(table.Properties.AllColumns).
		WHERE(table.Properties.ID.IS_NOT_NULL()).
		ORDER_BY(table.Properties.ID.ASC()).
		Query(queryable, &properties)
	if err != nil {
		t.Fatal("can't get properties", err)
	}

	return properties
}

// GetPropertyByURL is a helper test function to get property by url.
func GetPropertyByURL(t *testing.T, queryable qrm.Queryable, url string) *pgmodels.Properties {
	t.Helper()

	var property pgmodels.Properties
	err := table.Properties.SELECT(table.Properties.AllColumns).
		WHERE(table.Properties.URL.EQ(pg.String(url))).
		Query(queryable, &property)
	if err != nil {
		t.Fatal("can't get property", err)
	}

	return &property
}

// CleanupData is a helper test function deleting all properties.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.Properties.DELETE().WHERE(table.Properties.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete properties data", err)
	}
}
