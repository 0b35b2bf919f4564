package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/okian/contacts/internal/domain/contact"
)

// verifyResults checks every response against the first one and the contact
// shape. It returns the decoded row count of the reference body.
func verifyResults(results []result, expect int, log logrus.FieldLogger) (int, error) {
	log.Info("verifying responses")

	if len(results) == 0 {
		return 0, fmt.Errorf("%w: no responses", ErrUnexpectedStatus)
	}

	for i, r := range results {
		if r.err != nil {
			return 0, fmt.Errorf("%w: request %d: %w", ErrUnexpectedStatus, i, r.err)
		}
		if r.status != http.StatusOK {
			return 0, fmt.Errorf("%w: request %d got %d", ErrUnexpectedStatus, i, r.status)
		}
	}

	ref := results[0].body
	for i, r := range results[1:] {
		if !bytes.Equal(r.body, ref) {
			return 0, fmt.Errorf("%w: request %d body differs from request 0", ErrBodyMismatch, i+1)
		}
	}

	rows, err := verifyBody(ref)
	if err != nil {
		return 0, err
	}
	if expect != ExpectUnchecked && rows != expect {
		return rows, fmt.Errorf("%w: got %d, want %d", ErrRowCount, rows, expect)
	}

	log.WithField("rows", rows).Info("responses consistent")
	return rows, nil
}

// verifyBody decodes a /contacts body and checks every element carries all
// projected fields.
func verifyBody(body []byte) (int, error) {
	var objs []map[string]any
	if err := json.Unmarshal(body, &objs); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if objs == nil {
		// "null" decodes to a nil slice; an empty table must be [].
		return 0, fmt.Errorf("%w: body is null", ErrMalformedBody)
	}
	for i, obj := range objs {
		if missing := contact.MissingFields(obj); len(missing) > 0 {
			return 0, fmt.Errorf("%w: element %d lacks %v", ErrMissingFields, i, missing)
		}
	}
	return len(objs), nil
}
