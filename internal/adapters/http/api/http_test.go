package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/contacts/internal/adapters/http/api"
	"github.com/okian/contacts/internal/adapters/repository"
	"github.com/okian/contacts/internal/adapters/repository/repotest"
	service "github.com/okian/contacts/internal/app"
	"github.com/okian/contacts/internal/domain/contact"
	"github.com/okian/contacts/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDeps scripts Dependencies and StatsProvider.
type mockDeps struct {
	contacts []contact.Contact
	listErr  error
	readyErr error
	calls    int
}

func (m *mockDeps) ListContacts(context.Context) ([]contact.Contact, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.contacts, nil
}

func (m *mockDeps) Ready(context.Context) error { return m.readyErr }

func (m *mockDeps) GetStats() service.Stats {
	return service.Stats{
		Driver: "mock",
		Pool:   &repository.PoolStats{Driver: "mock", MaxOpen: 8, InUse: 2},
	}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps, nil).Register(mux)
	return mux
}

func do(mux http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestContactsHandler_HandleListContacts(t *testing.T) {
	Convey("Given an empty contacts table", t, func() {
		mux := newMux(&mockDeps{contacts: []contact.Contact{}})

		Convey("When GET /contacts", func() {
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then it returns 200 with []", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				So(w.Body.String(), ShouldEqual, "[]")
			})
		})
	})

	Convey("Given a table with one contact", t, func() {
		acme := contact.Contact{
			ContactID:   1,
			DisplayName: "Acme",
			Address:     contact.String("100 Market St"),
			City:        "Philadelphia",
			State:       "PA",
			ZipCode:     "19103",
			Latitude:    contact.Float64(40.0),
			Longitude:   contact.Float64(-75.0),
		}
		mux := newMux(&mockDeps{contacts: []contact.Contact{acme}})

		Convey("When GET /contacts", func() {
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then the body is a one-element array with those values", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0]["contact_id"], ShouldEqual, float64(1))
				So(got[0]["display_name"], ShouldEqual, "Acme")
				So(got[0]["latitude"], ShouldEqual, 40.0)
				So(got[0]["longitude"], ShouldEqual, -75.0)
				So(got[0], ShouldContainKey, "email")
				So(got[0]["email"], ShouldBeNil)
				So(contact.MissingFields(got[0]), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a failing query", t, func() {
		deps := &mockDeps{listErr: errors.New("pool exhausted")}
		mux := newMux(deps)

		Convey("When GET /contacts", func() {
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then it returns 500 with an empty body", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.Len(), ShouldEqual, 0)
				So(w.Body.String(), ShouldNotContainSubstring, "pool exhausted")
			})
		})
	})

	Convey("Given any method other than GET", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			Convey("When "+method+" /contacts", func() {
				w := do(mux, method, "/contacts")

				Convey("Then it returns 405 without querying", func() {
					So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
					So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
					So(deps.calls, ShouldEqual, 0)
				})
			})
		}
	})

	Convey("Given an unchanged table", t, func() {
		mux := newMux(&mockDeps{contacts: []contact.Contact{{ContactID: 7, DisplayName: "Acme"}}})

		Convey("Then repeated requests return byte-identical bodies", func() {
			first := do(mux, http.MethodGet, "/contacts")
			second := do(mux, http.MethodGet, "/contacts")
			So(second.Code, ShouldEqual, http.StatusOK)
			So(second.Body.String(), ShouldEqual, first.Body.String())
		})
	})
}

func TestContactsEndToEnd(t *testing.T) {
	Convey("Given the API over a SQLite-backed service", t, func() {
		buf := &bytes.Buffer{}
		l := logger.New(slog.NewJSONHandler(buf, nil))

		build := func(rows ...contact.Contact) (*http.ServeMux, *service.Service) {
			store, _ := repotest.OpenSQLite(t, rows...)
			svc := service.New(store, service.WithLogger(l))
			mux := http.NewServeMux()
			api.NewServer(svc, svc, l).Register(mux)
			return mux, svc
		}

		Convey("When the table is empty", func() {
			mux, _ := build()
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then the body is []", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "[]")
			})
		})

		Convey("When the table holds the Acme row", func() {
			mux, _ := build(repotest.Acme())
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then the row round-trips into JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got []contact.Contact
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, []contact.Contact{repotest.Acme()})
			})
		})

		Convey("When one row has a NULL address and another a fractional capacity", func() {
			mux, _ := build(repotest.Acme(), repotest.Sparse(2), repotest.Fractional(3))
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then every row is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 3)

				byID := make(map[float64]map[string]any, len(got))
				for _, c := range got {
					byID[c["contact_id"].(float64)] = c
				}
				So(byID[2], ShouldContainKey, "address")
				So(byID[2]["address"], ShouldBeNil)
				So(byID[3]["capacity"], ShouldEqual, 12.5)
				So(byID[1]["address"], ShouldEqual, "100 Market St")
			})
		})

		Convey("When the database is unreachable", func() {
			mux, svc := build(repotest.Acme())
			So(svc.Close(), ShouldBeNil)
			buf.Reset()
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then the client gets an empty 500 and one error is logged", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.Len(), ShouldEqual, 0)
				So(strings.Count(buf.String(), `"level":"ERROR"`), ShouldEqual, 1)
				So(buf.String(), ShouldContainSubstring, "failed to execute query")
			})

			Convey("And readiness reports unavailable", func() {
				r := do(mux, http.MethodGet, "/readyz")
				So(r.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newMux(&mockDeps{contacts: []contact.Contact{}})

		Convey("When the caller sends X-Request-ID", func() {
			req := httptest.NewRequest(http.MethodGet, "/contacts", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-123")
			})
		})

		Convey("When the caller sends none", func() {
			w := do(mux, http.MethodGet, "/contacts")

			Convey("Then one is generated", func() {
				So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)
			})
		})
	})

	Convey("Given a handler that logs", t, func() {
		buf := &bytes.Buffer{}
		l := logger.New(slog.NewJSONHandler(buf, nil))
		h := api.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
			l.Info(r.Context(), "inside")
		}, nil)

		Convey("Then its log lines carry the request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/contacts", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "trace-me")
			h(httptest.NewRecorder(), req)
			So(buf.String(), ShouldContainSubstring, `"request_id":"trace-me"`)
		})
	})
}

func TestHealthHandler(t *testing.T) {
	Convey("Given a reachable database", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then /healthz is ok", func() {
			w := do(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then /readyz is ready", func() {
			w := do(mux, http.MethodGet, "/readyz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ready"`)
		})
	})

	Convey("Given an unreachable database", t, func() {
		mux := newMux(&mockDeps{readyErr: errors.New("dial tcp: refused")})

		Convey("Then /readyz is 503 without the cause", func() {
			w := do(mux, http.MethodGet, "/readyz")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, `"code":"unavailable"`)
			So(w.Body.String(), ShouldNotContainSubstring, "refused")
		})

		Convey("Then /healthz is still ok", func() {
			So(do(mux, http.MethodGet, "/healthz").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestStatsAndMetrics(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newMux(&mockDeps{contacts: []contact.Contact{}})

		Convey("When GET /stats", func() {
			w := do(mux, http.MethodGet, "/stats")

			Convey("Then provider stats are returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got["driver"], ShouldEqual, "mock")
				So(got["closed"], ShouldEqual, false)
				pool, ok := got["pool"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(pool["max_open"], ShouldEqual, float64(8))
				So(pool["in_use"], ShouldEqual, float64(2))
			})
		})

		Convey("When POST /stats", func() {
			So(do(mux, http.MethodPost, "/stats").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When GET /metrics after a request", func() {
			do(mux, http.MethodGet, "/contacts")
			w := do(mux, http.MethodGet, "/metrics")

			Convey("Then request counters are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "contacts_api_http_requests_total")
				So(w.Body.String(), ShouldContainSubstring, `endpoint="contacts"`)
			})
		})
	})
}
