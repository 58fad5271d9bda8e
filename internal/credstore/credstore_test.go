package credstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/readerctl/internal/credstore"
	"github.com/blackwell-systems/readerctl/internal/reader"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := credstore.New(t.TempDir())

	profile := &reader.UserProfile{UUID: "u1", Email: "a@b.com", Name: "Ada"}
	if err := store.Save(credstore.Credentials{Token: "tok123", Profile: profile}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	creds, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds.Token != "tok123" {
		t.Errorf("Token = %q, want %q", creds.Token, "tok123")
	}
	if creds.Profile == nil || creds.Profile.UUID != "u1" || creds.Profile.Email != "a@b.com" {
		t.Errorf("Profile = %+v", creds.Profile)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	store := credstore.New(t.TempDir())
	creds, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds.Token != "" || creds.Profile != nil {
		t.Errorf("expected empty credentials, got %+v", creds)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}
	store := credstore.New(dir)
	creds, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds.Token != "" {
		t.Errorf("corrupt file should read as no session, got token %q", creds.Token)
	}
}

func TestClear_RemovesTokenAndProfileTogether(t *testing.T) {
	dir := t.TempDir()
	store := credstore.New(dir)
	if err := store.Save(credstore.Credentials{Token: "tok", Profile: &reader.UserProfile{UUID: "u1"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Token() != "" {
		t.Error("token survived Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Error("session file survived Clear")
	}

	// Clearing again is a no-op.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestSave_RestrictsPermissions(t *testing.T) {
	dir := t.TempDir()
	store := credstore.New(dir)
	if err := store.Save(credstore.Credentials{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 0600", perm)
	}
}
