package contact_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/contacts/internal/domain/contact"
	"github.com/smartystreets/goconvey/convey"
)

func TestSelectAll(t *testing.T) {
	convey.Convey("Given the contacts projection", t, func() {
		q := contact.SelectAll()

		convey.Convey("Then the statement reads twelve columns without filtering or ordering", func() {
			convey.So(q, convey.ShouldEqual,
				"SELECT contact_id, display_name, address, city, state, zip_code, capacity, latitude, longitude, email, contact_form, age_range FROM contacts")
			convey.So(len(contact.Columns), convey.ShouldEqual, 12)
			convey.So(q, convey.ShouldNotContainSubstring, "WHERE")
			convey.So(q, convey.ShouldNotContainSubstring, "ORDER BY")
		})

		convey.Convey("And FieldNames returns an independent copy", func() {
			names := contact.FieldNames()
			names[0] = "changed"
			convey.So(contact.Columns[0], convey.ShouldEqual, "contact_id")
		})
	})
}

func TestContactJSON(t *testing.T) {
	convey.Convey("Given a fully populated contact", t, func() {
		c := contact.Contact{
			ContactID:   1,
			DisplayName: "Acme",
			Address:     contact.String("1 Main St"),
			City:        "Philadelphia",
			State:       "PA",
			ZipCode:     "19103",
			Capacity:    contact.Float64(25),
			Latitude:    contact.Float64(40.0),
			Longitude:   contact.Float64(-75.0),
			Email:       contact.String("hello@acme.test"),
			ContactForm: contact.String("email"),
			AgeRange:    contact.String("18-65"),
		}

		convey.Convey("When it is serialized", func() {
			raw, err := json.Marshal(c)
			convey.So(err, convey.ShouldBeNil)
			var obj map[string]any
			convey.So(json.Unmarshal(raw, &obj), convey.ShouldBeNil)

			convey.Convey("Then every column is present with its JSON type", func() {
				convey.So(contact.MissingFields(obj), convey.ShouldBeEmpty)
				convey.So(obj["contact_id"], convey.ShouldEqual, float64(1))
				convey.So(obj["display_name"], convey.ShouldEqual, "Acme")
				convey.So(obj["capacity"], convey.ShouldEqual, float64(25))
				convey.So(obj["latitude"], convey.ShouldEqual, 40.0)
				convey.So(obj["longitude"], convey.ShouldEqual, -75.0)
				convey.So(obj["zip_code"], convey.ShouldEqual, "19103")
			})
		})
	})

	convey.Convey("Given a contact with null optional columns", t, func() {
		c := contact.Contact{ContactID: 2, DisplayName: "Bare"}

		convey.Convey("When it is serialized", func() {
			raw, err := json.Marshal(c)
			convey.So(err, convey.ShouldBeNil)
			var obj map[string]any
			convey.So(json.Unmarshal(raw, &obj), convey.ShouldBeNil)

			convey.Convey("Then the keys are still present with null values", func() {
				convey.So(contact.MissingFields(obj), convey.ShouldBeEmpty)
				convey.So(obj["address"], convey.ShouldBeNil)
				convey.So(obj["capacity"], convey.ShouldBeNil)
				convey.So(obj["email"], convey.ShouldBeNil)
				convey.So(obj["age_range"], convey.ShouldBeNil)
			})
		})
	})
}

func TestMissingFields(t *testing.T) {
	convey.Convey("Given a partial object", t, func() {
		obj := map[string]any{"contact_id": 1, "display_name": "x"}

		convey.Convey("Then the absent columns are listed in projection order", func() {
			missing := contact.MissingFields(obj)
			convey.So(len(missing), convey.ShouldEqual, 10)
			convey.So(missing[0], convey.ShouldEqual, "address")
			convey.So(missing[9], convey.ShouldEqual, "age_range")
		})
	})
}
