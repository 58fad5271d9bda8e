package api_test

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/readerctl/internal/api"
)

func TestEndpoint_Expand(t *testing.T) {
	tests := []struct {
		name    string
		ep      api.Endpoint
		params  map[string]string
		want    string
		wantErr string
	}{
		{
			name:   "no params",
			ep:     api.Endpoint{Method: "POST", Path: "/api/v1/auth/login"},
			params: nil,
			want:   "/api/v1/auth/login",
		},
		{
			name:   "single param",
			ep:     api.Endpoint{Method: "GET", Path: "/api/v1/books/{uuid}"},
			params: map[string]string{"uuid": "b-42"},
			want:   "/api/v1/books/b-42",
		},
		{
			name:    "missing param",
			ep:      api.Endpoint{Method: "GET", Path: "/api/v1/books/{uuid}"},
			params:  nil,
			wantErr: "missing path parameter",
		},
		{
			name:    "unknown param",
			ep:      api.Endpoint{Method: "GET", Path: "/api/v1/books/{uuid}"},
			params:  map[string]string{"id": "7"},
			wantErr: "unknown path parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ep.Expand(tt.params)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expand: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expand = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoute_UnknownName(t *testing.T) {
	if _, _, err := api.Route("books.levitate", nil); err == nil {
		t.Fatal("expected error for unknown endpoint name")
	}
}

func TestEndpoints_RegistryCoversSurface(t *testing.T) {
	required := []string{
		"auth.register", "auth.login", "auth.logout", "auth.me",
		"auth.forgot_password", "auth.reset_password",
		"users.get", "users.update", "users.delete", "users.register_device",
		"users.stats", "users.books", "users.presigned_upload",
		"books.get", "books.update", "books.delete", "books.content",
		"books.process", "books.highlights", "books.reading_progress",
		"highlights.create", "highlights.get", "highlights.update",
		"highlights.delete", "highlights.toggle_favorite", "highlights.share",
		"reading_progress.list", "reading_progress.get",
		"reading_progress.update", "reading_progress.delete",
	}
	for _, name := range required {
		if _, exists := api.Endpoints[name]; !exists {
			t.Errorf("registry is missing %q", name)
		}
	}
}
