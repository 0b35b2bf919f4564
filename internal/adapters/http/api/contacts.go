package api

import (
	"encoding/json"
	"net/http"
)

// ContactsHandler serves the contacts collection.
type ContactsHandler struct {
	deps Dependencies
}

// NewContactsHandler creates a new contacts handler.
func NewContactsHandler(deps Dependencies) *ContactsHandler {
	return &ContactsHandler{deps: deps}
}

// HandleListContacts handles GET /contacts.
//
// Success is 200 with a JSON array. Any failure is a 500 with an empty body;
// the service has already logged the cause, so nothing is logged here.
func (h *ContactsHandler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	contacts, err := h.deps.ListContacts(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Encode before writing the status so a marshal failure can still be a 500.
	body, err := json.Marshal(contacts)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
