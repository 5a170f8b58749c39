package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goption "google.golang.org/api/option"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "sheet-123", nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestUpdateCell(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/v4/spreadsheets/sheet-123/values/Work!N3" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("valueInputOption"); got != "USER_ENTERED" {
			t.Errorf("valueInputOption = %q", got)
		}

		var body struct {
			Values [][]float64 `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Values) != 1 || len(body.Values[0]) != 1 || body.Values[0][0] != 2.5 {
			t.Errorf("body = %+v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updatedRange":"Work!N3","updatedCells":1}`))
	})

	n, err := c.UpdateCell(context.Background(), "Work!N3", 2.5)
	if err != nil {
		t.Fatalf("UpdateCell() error = %v", err)
	}
	if n != 1 {
		t.Errorf("UpdateCell() = %d, want 1", n)
	}
}

func TestUpdateCell_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"Unable to parse range"}}`, http.StatusBadRequest)
	})

	_, err := c.UpdateCell(context.Background(), "Missing!A1", 1)
	if err == nil || !strings.Contains(err.Error(), "update Missing!A1") {
		t.Fatalf("UpdateCell() error = %v", err)
	}
}

func TestTabs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/sheet-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sheets":[
			{"properties":{"sheetId":0,"title":"Work"}},
			{"properties":{"sheetId":42,"title":"Dev"}}
		]}`))
	})

	tabs, err := c.Tabs(context.Background())
	if err != nil {
		t.Fatalf("Tabs() error = %v", err)
	}
	if len(tabs) != 2 || tabs["Dev"] != 42 {
		t.Errorf("Tabs() = %v", tabs)
	}
	if _, ok := tabs["Work"]; !ok {
		t.Error("sheet id 0 must still be listed")
	}
}

func TestReadCell(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "Work!N3") {
			_, _ = w.Write([]byte(`{"range":"Work!N3","values":[["2.5"]]}`))
			return
		}
		_, _ = w.Write([]byte(`{"range":"Work!N4"}`))
	})

	if v, err := c.ReadCell(context.Background(), "Work!N3"); err != nil || v != "2.5" {
		t.Errorf("ReadCell() = %q, %v", v, err)
	}
	if v, err := c.ReadCell(context.Background(), "Work!N4"); err != nil || v != "" {
		t.Errorf("ReadCell() on blank = %q, %v", v, err)
	}
}

func TestNilService(t *testing.T) {
	c := NewWithService(nil, "sheet-123", nil)
	if _, err := c.UpdateCell(context.Background(), "Work!A1", 1); err == nil {
		t.Error("expected error with nil service")
	}
	if _, err := c.Tabs(context.Background()); err == nil {
		t.Error("expected error with nil service")
	}
}
