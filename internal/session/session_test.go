package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blackwell-systems/readerctl/internal/api"
	"github.com/blackwell-systems/readerctl/internal/credstore"
	"github.com/blackwell-systems/readerctl/internal/session"
)

// fakeBackend is a minimal auth server. Tokens it issued are accepted on
// auth.me; everything else gets a 401.
type fakeBackend struct {
	token      string
	meCalls    int
	logoutDown bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{
			"user":{"uuid":"u1","email":"` + body.Email + `","name":"Ada","verified":true,"status":"active"},
			"token":"` + f.token + `"}}`))
	})
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f.meCalls++
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"uuid":"u1","email":"a@b.com","name":"Ada","verified":true,"status":"active"}}`))
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if f.logoutDown {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	return mux
}

func newManager(t *testing.T, serverURL, dataDir string) (*session.Manager, *credstore.Store) {
	t.Helper()
	store := credstore.New(dataDir)
	client := api.New(api.Options{BaseURL: serverURL, Credentials: store})
	return session.NewManager(client, store, nil), store
}

func TestLogin_PersistsTokenAndProfile(t *testing.T) {
	backend := &fakeBackend{token: "tok123"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	dir := t.TempDir()
	m, store := newManager(t, server.URL, dir)

	profile, err := m.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if m.State() != session.Authenticated {
		t.Errorf("state = %s, want authenticated", m.State())
	}
	if profile.UUID != "u1" || profile.Email != "a@b.com" {
		t.Errorf("profile = %+v", profile)
	}

	creds, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds.Token != "tok123" {
		t.Errorf("stored token = %q, want the login response token", creds.Token)
	}

	// A fresh process with the same data dir restores the session.
	m2, _ := newManager(t, server.URL, dir)
	if err := m2.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if m2.State() != session.Authenticated {
		t.Errorf("restored state = %s", m2.State())
	}
	restored, ok := m2.CurrentUser()
	if !ok || restored.UUID != "u1" {
		t.Errorf("restored profile = %+v", restored)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	backend := &fakeBackend{token: "tok123"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	m, store := newManager(t, server.URL, t.TempDir())
	notified := 0
	m.OnSessionExpired(func() { notified++ })

	_, err := m.Login(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if m.State() != session.Unauthenticated {
		t.Errorf("state = %s, want unauthenticated", m.State())
	}
	if store.Token() != "" {
		t.Error("failed login must not store a token")
	}
	if notified != 0 {
		t.Errorf("expired listener fired %d times for a failed login, want 0", notified)
	}
}

func TestRestore_NoToken(t *testing.T) {
	backend := &fakeBackend{token: "t"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	m, _ := newManager(t, server.URL, t.TempDir())
	if err := m.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if m.State() != session.Unauthenticated {
		t.Errorf("state = %s", m.State())
	}
	if backend.meCalls != 0 {
		t.Error("restore without a token must not call the server")
	}
}

func TestRestore_RejectedTokenClearsStorage(t *testing.T) {
	backend := &fakeBackend{token: "valid"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	dir := t.TempDir()
	store := credstore.New(dir)
	if err := store.Save(credstore.Credentials{Token: "expired"}); err != nil {
		t.Fatal(err)
	}

	m, _ := newManager(t, server.URL, dir)
	err := m.Restore(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if m.State() != session.Unauthenticated {
		t.Errorf("state = %s, want unauthenticated", m.State())
	}

	creds, _ := store.Load()
	if creds.Token != "" || creds.Profile != nil {
		t.Errorf("storage not cleared after rejected token: %+v", creds)
	}
}

func TestLogout_ClearsLocalStateEvenWhenServerFails(t *testing.T) {
	backend := &fakeBackend{token: "tok123", logoutDown: true}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	m, store := newManager(t, server.URL, t.TempDir())
	if _, err := m.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if m.State() != session.Unauthenticated {
		t.Errorf("state = %s, want unauthenticated", m.State())
	}
	if store.Token() != "" {
		t.Error("token survived logout")
	}
	if _, ok := m.CurrentUser(); ok {
		t.Error("profile survived logout")
	}
}

func TestAuthFailure_TransitionsAndNotifies(t *testing.T) {
	backend := &fakeBackend{token: "tok123"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	m, store := newManager(t, server.URL, t.TempDir())
	if _, err := m.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	notified := 0
	m.OnSessionExpired(func() { notified++ })

	// The server stops honoring the token; the next validated call 401s.
	backend.token = "rotated"
	err := m.Restore(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}

	if m.State() != session.Unauthenticated {
		t.Errorf("state = %s, want unauthenticated", m.State())
	}
	if notified != 1 {
		t.Errorf("expired listener fired %d times, want 1", notified)
	}
	if store.Token() != "" {
		t.Error("token survived the 401")
	}
}

func TestRequireUserID_Unauthenticated(t *testing.T) {
	server := httptest.NewServer((&fakeBackend{token: "t"}).handler())
	defer server.Close()

	m, _ := newManager(t, server.URL, t.TempDir())
	_, err := m.RequireUserID()
	if !errors.Is(err, api.ErrPrecondition) {
		t.Fatalf("err = %v, want precondition", err)
	}
}
