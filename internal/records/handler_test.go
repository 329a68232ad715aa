package records_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/filevault/internal/records"
	"github.com/JaimeStill/filevault/pkg/middleware"
	"github.com/JaimeStill/filevault/pkg/query"
)

type mockSystem struct {
	listFn   func(ctx context.Context, userID string, filter records.Filter) ([]records.Record, error)
	findFn   func(ctx context.Context, userID string, id int64) (*records.Record, error)
	createFn func(ctx context.Context, cmd records.CreateCommand) (*records.Record, error)
}

func (m *mockSystem) Handler() *records.Handler {
	return records.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) List(ctx context.Context, userID string, filter records.Filter) ([]records.Record, error) {
	return m.listFn(ctx, userID, filter)
}

func (m *mockSystem) Find(ctx context.Context, userID string, id int64) (*records.Record, error) {
	return m.findFn(ctx, userID, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd records.CreateCommand) (*records.Record, error) {
	return m.createFn(ctx, cmd)
}

func setupMux(h *records.Handler) http.Handler {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return middleware.Identity(slog.New(slog.NewTextHandler(io.Discard, nil)))(mux)
}

func ptr[T any](v T) *T { return &v }

func sampleRecord() records.Record {
	return records.Record{
		ID:              7,
		UserID:          "test-user-123",
		CorrelationID:   uuid.MustParse("6b0c2f7e-3f7e-4b8a-9d0e-2a7c1b5e9f10"),
		DocumentKey:     "test-user-123/0f8e2c7a.pdf",
		FilingStatus:    ptr("single"),
		W2Wages:         ptr(50000.0),
		TotalDeductions: ptr(12000.0),
		CapitalGainLoss: ptr(500.0),
		CreatedAt:       time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC),
	}
}

func request(method, path, user string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if user != "" {
		req.Header.Set(middleware.UserHeader, user)
	}
	return req
}

func TestListScopesToCaller(t *testing.T) {
	var gotUser string
	sys := &mockSystem{
		listFn: func(_ context.Context, userID string, _ records.Filter) ([]records.Record, error) {
			gotUser = userID
			return []records.Record{sampleRecord()}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, request("GET", "/records", "test-user-123"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if gotUser != "test-user-123" {
		t.Errorf("user: got %q", gotUser)
	}

	var body []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("records: got %d, want 1", len(body))
	}
	if body[0]["ira_distributions"] != nil {
		t.Errorf("ira_distributions: got %v, want null", body[0]["ira_distributions"])
	}
	if _, ok := body[0]["ira_distributions"]; !ok {
		t.Error("ira_distributions key should be present as null")
	}
}

func TestListEmptyIsArray(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, string, records.Filter) ([]records.Record, error) {
			return []records.Record{}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, request("GET", "/records", "u1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body: got %q, want []", got)
	}
}

func TestListPassesFilter(t *testing.T) {
	var got records.Filter
	sys := &mockSystem{
		listFn: func(_ context.Context, _ string, filter records.Filter) ([]records.Record, error) {
			got = filter
			return []records.Record{}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, request("GET", "/records?filing_status=single&sort=-w2_wages,id", "u1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got.FilingStatus == nil || *got.FilingStatus != "single" {
		t.Errorf("filing status: got %v", got.FilingStatus)
	}
	want := []query.SortField{{Field: "w2_wages", Descending: true}, {Field: "id"}}
	if !slices.Equal(got.Sort, want) {
		t.Errorf("sort: got %+v, want %+v", got.Sort, want)
	}
}

func TestListInvalidFilter(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, string, records.Filter) ([]records.Record, error) {
			return nil, fmt.Errorf("%w: %w", records.ErrInvalidFilter, query.ErrUnknownField)
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, request("GET", "/records?sort=ssn", "u1"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestFilterFromQueryEmpty(t *testing.T) {
	f := records.FilterFromQuery(url.Values{"filing_status": {"  "}})
	if f.FilingStatus != nil || f.Sort != nil {
		t.Errorf("filter: got %+v, want zero", f)
	}
}

func TestListRequiresIdentity(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, string, records.Filter) ([]records.Record, error) {
			t.Fatal("system should not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, request("GET", "/records", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		findFn func(context.Context, string, int64) (*records.Record, error)
		want   int
	}{
		{
			name: "found",
			path: "/records/7",
			findFn: func(_ context.Context, _ string, id int64) (*records.Record, error) {
				r := sampleRecord()
				r.ID = id
				return &r, nil
			},
			want: http.StatusOK,
		},
		{
			name: "not found",
			path: "/records/99",
			findFn: func(context.Context, string, int64) (*records.Record, error) {
				return nil, records.ErrNotFound
			},
			want: http.StatusNotFound,
		},
		{
			name: "non numeric id",
			path: "/records/abc",
			want: http.StatusBadRequest,
		},
		{
			name: "zero id",
			path: "/records/0",
			want: http.StatusBadRequest,
		},
		{
			name: "database failure",
			path: "/records/7",
			findFn: func(context.Context, string, int64) (*records.Record, error) {
				return nil, errors.New("connection reset")
			},
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{findFn: tt.findFn}
			if sys.findFn == nil {
				sys.findFn = func(context.Context, string, int64) (*records.Record, error) {
					t.Fatal("system should not be called")
					return nil, nil
				}
			}

			rec := httptest.NewRecorder()
			setupMux(sys.Handler()).ServeHTTP(rec, request("GET", tt.path, "test-user-123"))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestFindDecodesAsRecord(t *testing.T) {
	sys := &mockSystem{
		findFn: func(context.Context, string, int64) (*records.Record, error) {
			r := sampleRecord()
			return &r, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, request("GET", "/records/7", "test-user-123"))

	var got records.Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 7 || *got.W2Wages != 50000 || got.IRADistributions != nil {
		t.Errorf("record: got %+v", got)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{records.ErrNotFound, http.StatusNotFound},
		{records.ErrDuplicate, http.StatusConflict},
		{records.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", records.ErrInvalidFilter, query.ErrUnknownField), http.StatusBadRequest},
		{middleware.ErrMissingIdentity, http.StatusUnauthorized},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := records.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}
