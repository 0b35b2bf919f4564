// Package repotest builds throwaway SQLite contacts databases for tests.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okian/contacts/internal/adapters/repository"
	"github.com/okian/contacts/internal/domain/contact"
)

// Schema creates the contacts table in SQLite.
const Schema = `CREATE TABLE contacts (
	contact_id   INTEGER PRIMARY KEY,
	display_name TEXT NOT NULL,
	address      TEXT,
	city         TEXT NOT NULL,
	state        TEXT NOT NULL,
	zip_code     TEXT NOT NULL,
	capacity     NUMERIC,
	latitude     REAL,
	longitude    REAL,
	email        TEXT,
	contact_form TEXT,
	age_range    TEXT
)`

const insertContact = `INSERT INTO contacts (
	contact_id, display_name, address, city, state, zip_code,
	capacity, latitude, longitude, email, contact_form, age_range
) VALUES (
	:contact_id, :display_name, :address, :city, :state, :zip_code,
	:capacity, :latitude, :longitude, :email, :contact_form, :age_range
)`

// NewSQLite creates a file-backed database under tb.TempDir with the contacts
// table and rows, and returns its DSN. A file is used instead of :memory:
// so that every pooled connection sees the same data.
func NewSQLite(tb testing.TB, rows ...contact.Contact) string {
	tb.Helper()

	dsn := "file:" + filepath.Join(tb.TempDir(), "contacts.db") + "?_pragma=busy_timeout(5000)"
	db, err := sqlx.Open(repository.DriverSQLite, dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		tb.Fatalf("create contacts table: %v", err)
	}
	for _, c := range rows {
		if _, err := db.NamedExec(insertContact, c); err != nil {
			tb.Fatalf("insert contact %d: %v", c.ContactID, err)
		}
	}
	return dsn
}

// Exec runs a statement against the database at dsn, e.g. to drop the table
// under a live store.
func Exec(tb testing.TB, dsn, stmt string) {
	tb.Helper()

	db, err := sqlx.Open(repository.DriverSQLite, dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(stmt); err != nil {
		tb.Fatalf("exec %q: %v", stmt, err)
	}
}

// OpenSQLite seeds a fresh database and opens a Store on it. The store is
// closed when the test ends.
func OpenSQLite(tb testing.TB, rows ...contact.Contact) (repository.Store, string) {
	tb.Helper()

	dsn := NewSQLite(tb, rows...)
	store, err := repository.Open(context.Background(), repository.DriverSQLite, dsn)
	if err != nil {
		tb.Fatalf("open store: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })
	return store, dsn
}

// Acme is the single-row fixture used across packages.
func Acme() contact.Contact {
	return contact.Contact{
		ContactID:   1,
		DisplayName: "Acme",
		Address:     contact.String("100 Market St"),
		City:        "Philadelphia",
		State:       "PA",
		ZipCode:     "19103",
		Capacity:    contact.Float64(40),
		Latitude:    contact.Float64(40.0),
		Longitude:   contact.Float64(-75.0),
		Email:       contact.String("a@acme.test"),
		ContactForm: contact.String("https://acme.test/contact"),
		AgeRange:    contact.String("18-65"),
	}
}

// Sparse returns a contact whose nullable columns are all NULL.
func Sparse(id int64) contact.Contact {
	return contact.Contact{
		ContactID:   id,
		DisplayName: "Shelter",
		City:        "Portland",
		State:       "OR",
		ZipCode:     "97201",
	}
}

// Fractional returns a contact with a non-integral capacity.
func Fractional(id int64) contact.Contact {
	c := Sparse(id)
	c.DisplayName = "Annex"
	c.Address = contact.String("12 Oak Ave")
	c.Capacity = contact.Float64(12.5)
	return c
}
