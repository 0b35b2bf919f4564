// Package contact contains the Contact entity read from the contacts table.
package contact

import "strings"

// Table is the relation the service reads from.
const Table = "contacts"

// Columns lists the projected columns in SELECT order. The same names are
// used as JSON keys.
var Columns = []string{
	"contact_id",
	"display_name",
	"address",
	"city",
	"state",
	"zip_code",
	"capacity",
	"latitude",
	"longitude",
	"email",
	"contact_form",
	"age_range",
}

// Contact is one row of the contacts table. Pointer fields map nullable
// columns and serialize as JSON null.
type Contact struct {
	ContactID   int64    `json:"contact_id"   db:"contact_id"`
	DisplayName string   `json:"display_name" db:"display_name"`
	Address     *string  `json:"address"      db:"address"`
	City        string   `json:"city"         db:"city"`
	State       string   `json:"state"        db:"state"`
	ZipCode     string   `json:"zip_code"     db:"zip_code"`
	Capacity    *float64 `json:"capacity"     db:"capacity"`
	Latitude    *float64 `json:"latitude"     db:"latitude"`
	Longitude   *float64 `json:"longitude"    db:"longitude"`
	Email       *string  `json:"email"        db:"email"`
	ContactForm *string  `json:"contact_form" db:"contact_form"`
	AgeRange    *string  `json:"age_range"    db:"age_range"`
}

// FieldNames returns a copy of Columns.
func FieldNames() []string {
	out := make([]string, len(Columns))
	copy(out, Columns)
	return out
}

// SelectAll is the fixed, parameter-free statement that reads every contact.
// No filtering and no ordering are applied.
func SelectAll() string {
	return "SELECT " + strings.Join(Columns, ", ") + " FROM " + Table
}

// MissingFields reports which of the projected fields are absent from a
// decoded JSON object.
func MissingFields(obj map[string]any) []string {
	var missing []string
	for _, name := range Columns {
		if _, ok := obj[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Pointer helpers for building contacts with nullable fields.

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
