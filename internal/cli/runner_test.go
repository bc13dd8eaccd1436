package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/idilsaglam/tuido/internal/api"
	"github.com/idilsaglam/tuido/internal/logging"
)

func testOptions(t *testing.T, handler http.Handler) Options {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return Options{
		Client: api.New(srv.URL, 2*time.Second, logging.Discard()),
		Logger: logging.Discard(),
	}
}

func unreachableOptions(t *testing.T) Options {
	t.Helper()
	return testOptions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
}

func TestUsageErrorsNeedNoNetwork(t *testing.T) {
	opt := unreachableOptions(t)
	cases := [][]string{
		{"new"},
		{"rm"},
		{"rm", "abc"},
		{"show", "1", "2"},
		{"add", "1"},
		{"done", "1"},
		{"rmi", "x", "y"},
		{"bogus"},
	}
	for _, args := range cases {
		if code := Run(args, opt); code != 2 {
			t.Errorf("Run(%v) = %d, want usage error 2", args, code)
		}
	}
}

func TestHelpExitsZero(t *testing.T) {
	opt := unreachableOptions(t)
	for _, args := range [][]string{{"help"}, {"-h"}, {"--help"}} {
		if code := Run(args, opt); code != 0 {
			t.Errorf("Run(%v) = %d, want 0", args, code)
		}
	}
}

func TestEmptyLabelRejectedBeforeNetwork(t *testing.T) {
	opt := unreachableOptions(t)
	if code := Run([]string{"add", "1", "   "}, opt); code != 2 {
		t.Fatalf("whitespace-only label should be a usage error, got %d", code)
	}
	if code := Run([]string{"new", "  "}, opt); code != 2 {
		t.Fatalf("whitespace-only name should be a usage error, got %d", code)
	}
}

func TestListsAndIndexMapping(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/lists", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "l1", "name": "Groceries", "item_count": 2},
			{"id": "l2", "name": "Chores", "item_count": 0},
		})
	})
	mux.HandleFunc("DELETE /api/lists/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		json.NewEncoder(w).Encode(true)
	})
	opt := testOptions(t, mux)

	if code := Run([]string{"lists"}, opt); code != 0 {
		t.Fatalf("lists exit code = %d", code)
	}
	if code := Run([]string{"rm", "2"}, opt); code != 0 {
		t.Fatalf("rm exit code = %d", code)
	}
	if deleted != "l2" {
		t.Fatalf("index 2 should map to id l2, deleted %q", deleted)
	}
	if code := Run([]string{"rm", "7"}, opt); code != 2 {
		t.Fatalf("out-of-range index should be usage error, got %d", code)
	}
}

func TestDoneTogglesCurrentState(t *testing.T) {
	var patched map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/lists", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "l1", "name": "Groceries", "item_count": 2},
		})
	})
	mux.HandleFunc("GET /api/lists/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "l1", "name": "Groceries",
			"items": []map[string]any{
				{"id": "i1", "label": "Milk", "checked": false},
				{"id": "i2", "label": "Bread", "checked": true},
			},
		})
	})
	mux.HandleFunc("PATCH /api/lists/{id}/items/checked_state", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&patched)
		json.NewEncoder(w).Encode(map[string]any{"id": "l1", "name": "Groceries", "items": []any{}})
	})
	opt := testOptions(t, mux)

	if code := Run([]string{"done", "1", "2"}, opt); code != 0 {
		t.Fatalf("done exit code = %d", code)
	}
	if patched["item_id"] != "i2" {
		t.Errorf("item_id = %v, want i2", patched["item_id"])
	}
	// Bread was checked, so toggling sends false
	if patched["checked_state"] != false {
		t.Errorf("checked_state = %v, want false", patched["checked_state"])
	}
}

func TestServerErrorExitsOne(t *testing.T) {
	opt := testOptions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Failed to list todo lists"}`))
	}))
	if code := Run([]string{"lists"}, opt); code != 1 {
		t.Fatalf("server failure exit code = %d, want 1", code)
	}
}
