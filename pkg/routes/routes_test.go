package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/filevault/pkg/openapi"
	"github.com/JaimeStill/filevault/pkg/routes"
)

func records() routes.Group {
	noop := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	return routes.Group{
		Prefix: "/records",
		Tag:    "Records",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: noop, Doc: &openapi.Operation{Summary: "List"}},
			{Method: "GET", Pattern: "/{id}", Handler: noop, Doc: &openapi.Operation{Summary: "Find"}},
			{Method: "DELETE", Pattern: "/{id}", Handler: noop},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, records())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/records", http.StatusOK},
		{"GET", "/records/3", http.StatusOK},
		{"DELETE", "/records/3", http.StatusOK},
		{"POST", "/records", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: got %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	routes.Describe(spec, records())

	list, ok := spec.Paths["/records"]
	if !ok || list.Get == nil {
		t.Fatal("missing GET /records")
	}
	if len(list.Get.Tags) != 1 || list.Get.Tags[0] != "Records" {
		t.Errorf("tags: got %v, want [Records]", list.Get.Tags)
	}

	find, ok := spec.Paths["/records/{id}"]
	if !ok || find.Get == nil {
		t.Fatal("missing GET /records/{id}")
	}
	if find.Delete != nil {
		t.Error("undocumented route should not be described")
	}
}
