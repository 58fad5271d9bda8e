package reader_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/blackwell-systems/readerctl/internal/api"
	"github.com/blackwell-systems/readerctl/internal/reader"
)

type fixedIdentity struct {
	userID string
}

func (f fixedIdentity) RequireUserID() (string, error) {
	if f.userID == "" {
		return "", api.ErrNoSession
	}
	return f.userID, nil
}

type nopCreds struct{}

func (nopCreds) Token() string { return "tok" }
func (nopCreds) Clear() error  { return nil }

// countingServer records how many requests reached it.
func countingServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestServices_PreconditionFailsFastWithoutNetwork(t *testing.T) {
	server, hits := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client := api.New(api.Options{BaseURL: server.URL, Credentials: nopCreds{}})
	unauth := fixedIdentity{}

	books := reader.NewBooksService(client, unauth)
	highlights := reader.NewHighlightsService(client, unauth)
	progress := reader.NewProgressService(client, unauth)
	users := reader.NewUsersService(client, unauth)

	ctx := context.Background()
	calls := []struct {
		name string
		run  func() error
	}{
		{"books.List", func() error { _, _, err := books.List(ctx, 1, 20); return err }},
		{"books.Get", func() error { _, err := books.Get(ctx, "b1"); return err }},
		{"books.Delete", func() error { return books.Delete(ctx, "b1") }},
		{"books.Content", func() error { _, err := books.Content(ctx, "b1"); return err }},
		{"highlights.Create", func() error {
			_, err := highlights.Create(ctx, reader.HighlightCreate{BookUUID: "b1", EndOffset: 5, Text: "x"})
			return err
		}},
		{"highlights.Share", func() error { _, err := highlights.Share(ctx, "h1"); return err }},
		{"progress.List", func() error { _, _, err := progress.List(ctx, 1, 20); return err }},
		{"progress.Update", func() error {
			_, err := progress.Update(ctx, 1, reader.ProgressUpdate{BookUUID: "b1"})
			return err
		}},
		{"users.Stats", func() error { _, err := users.Stats(ctx); return err }},
	}

	for _, c := range calls {
		if err := c.run(); !errors.Is(err, api.ErrPrecondition) {
			t.Errorf("%s: err = %v, want precondition", c.name, err)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("%d requests hit the network, want 0", n)
	}
}

func TestBooksList_PassesThroughItemsAndMeta(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/u1/books" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"items": [
					{"uuid":"b1","title":"SICP","file_type":"pdf","processing_status":"completed"},
					{"uuid":"b2","title":"OSTEP","file_type":"epub","processing_status":"pending"}
				],
				"current_page": 2, "per_page": 20, "total_items": 45, "total_pages": 3
			}
		}`))
	})
	client := api.New(api.Options{BaseURL: server.URL, Credentials: nopCreds{}})
	books := reader.NewBooksService(client, fixedIdentity{userID: "u1"})

	items, meta, err := books.List(context.Background(), 2, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].UUID != "b1" || items[0].Status != reader.ProcessingCompleted {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].FileType != reader.FileTypeEPUB {
		t.Errorf("items[1].FileType = %q", items[1].FileType)
	}
	if meta.CurrentPage != 2 || meta.PerPage != 20 || meta.TotalItems != 45 || meta.TotalPages != 3 {
		t.Errorf("meta = %+v, want echoed unchanged", meta)
	}
}

func TestBooksProgress_NotFoundMeansNotStarted(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := api.New(api.Options{BaseURL: server.URL, Credentials: nopCreds{}})
	books := reader.NewBooksService(client, fixedIdentity{userID: "u1"})

	p, err := books.Progress(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p != nil {
		t.Errorf("p = %+v, want nil for unread book", p)
	}
}

func TestHighlightsCreate_ValidatesLocally(t *testing.T) {
	server, hits := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client := api.New(api.Options{BaseURL: server.URL, Credentials: nopCreds{}})
	highlights := reader.NewHighlightsService(client, fixedIdentity{userID: "u1"})

	tests := []struct {
		name string
		hc   reader.HighlightCreate
	}{
		{"inverted range", reader.HighlightCreate{BookUUID: "b1", StartOffset: 10, EndOffset: 5, Text: "x"}},
		{"negative start", reader.HighlightCreate{BookUUID: "b1", StartOffset: -1, EndOffset: 5, Text: "x"}},
		{"bad color", reader.HighlightCreate{BookUUID: "b1", EndOffset: 5, Text: "x", Color: "chartreuse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := highlights.Create(context.Background(), tt.hc)
			if !errors.Is(err, api.ErrValidation) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("%d requests hit the network, want 0", n)
	}
}

func TestHighlightsCreate_DefaultsToYellow(t *testing.T) {
	var gotColor string
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Color string `json:"color"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotColor = body.Color
		_, _ = w.Write([]byte(`{"success":true,"data":{"uuid":"h1","color":"yellow"}}`))
	})
	client := api.New(api.Options{BaseURL: server.URL, Credentials: nopCreds{}})
	highlights := reader.NewHighlightsService(client, fixedIdentity{userID: "u1"})

	h, err := highlights.Create(context.Background(), reader.HighlightCreate{
		BookUUID: "b1", EndOffset: 5, Text: "hello",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if gotColor != "yellow" {
		t.Errorf("sent color = %q, want yellow default", gotColor)
	}
	if h.UUID != "h1" {
		t.Errorf("h = %+v", h)
	}
}

func TestProgressUpdate_RejectsOutOfRangePercentage(t *testing.T) {
	server, hits := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client := api.New(api.Options{BaseURL: server.URL, Credentials: nopCreds{}})
	progress := reader.NewProgressService(client, fixedIdentity{userID: "u1"})

	_, err := progress.Update(context.Background(), 1, reader.ProgressUpdate{BookUUID: "b1", Percentage: 140})
	if !errors.Is(err, api.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if hits.Load() != 0 {
		t.Error("out-of-range percentage must not hit the network")
	}
}

func TestValidColor(t *testing.T) {
	for _, c := range []reader.HighlightColor{
		reader.ColorYellow, reader.ColorGreen, reader.ColorBlue,
		reader.ColorPink, reader.ColorPurple, reader.ColorOrange,
	} {
		if !reader.ValidColor(c) {
			t.Errorf("ValidColor(%q) = false", c)
		}
	}
	if reader.ValidColor("mauve") {
		t.Error(`ValidColor("mauve") = true`)
	}
}
