package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsersRoundTrip(t *testing.T) {
	dir := t.TempDir()
	users := []User{
		{Username: "amelia", Password: "$2a$10$fakefakefakefakefakefake", Role: "admin", CreatedAt: "2024-03-01T10:00:00Z"},
		{Username: "bruno", Password: "$2a$10$otherotherotherotherother", Role: "editor", CreatedAt: "2024-03-02T10:00:00Z"},
	}
	require.NoError(t, SaveUsers(dir, users))

	loaded, err := LoadUsers(dir)
	require.NoError(t, err)
	require.Equal(t, users, loaded)

	// the loaded slice is a disposable copy
	loaded[0].Role = "viewer"
	again, err := LoadUsers(dir)
	require.NoError(t, err)
	require.Equal(t, "admin", again[0].Role)
}

func TestLoadUsersMissingFile(t *testing.T) {
	_, err := LoadUsers(t.TempDir())
	if err == nil {
		t.Fatal("missing credential file should be an error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error should carry the underlying not-exist, got %v", err)
	}
}

func TestLoadUsersMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, UsersFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUsers(dir); err == nil {
		t.Fatal("malformed credential file should be an error")
	}
}

func TestFindUserAndCountRole(t *testing.T) {
	users := []User{
		{Username: "amelia", Role: "admin"},
		{Username: "bruno", Role: "editor"},
		{Username: "carla", Role: "admin"},
	}
	if u := FindUser(users, "bruno"); u == nil || u.Role != "editor" {
		t.Fatalf("expected bruno the editor, got %v", u)
	}
	if u := FindUser(users, "nobody"); u != nil {
		t.Fatalf("expected nil for unknown user, got %v", u)
	}
	if n := CountRole(users, "admin"); n != 2 {
		t.Fatalf("expected 2 admins, got %v", n)
	}
	// FindUser points into the slice so callers can mutate then save
	FindUser(users, "bruno").Role = "admin"
	if n := CountRole(users, "admin"); n != 3 {
		t.Fatalf("expected 3 admins after promotion, got %v", n)
	}
}
