package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type (
	// User is one entry of the credential file. Password always holds
	// a hash, never the plain text.
	User struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		CreatedAt string `json:"createdAt"`
	}
)

// UsersFile is the name of the credential file inside the data directory.
const UsersFile = "users.json"

// RoleAdmin is the only role with special semantics: the last user
// holding it cannot be deleted. Any other role string is accepted as-is.
const RoleAdmin = "admin"

// LoadUsers reads the full credential file into memory. The returned
// slice is a disposable copy, mutations are only persisted by SaveUsers.
func LoadUsers(dataDir string) ([]User, error) {
	file := filepath.Join(dataDir, UsersFile)
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read credential file %v, cause %w", file, err)
	}
	var users []User
	if err := json.Unmarshal(buf, &users); err != nil {
		return nil, fmt.Errorf("unable to parse credential file %v, cause %w", file, err)
	}
	return users, nil
}

// SaveUsers overwrites the credential file with the given list. The
// write is a plain truncate-and-write, callers get last-writer-wins
// semantics and a crash mid-write can corrupt the file.
func SaveUsers(dataDir string, users []User) error {
	file := filepath.Join(dataDir, UsersFile)
	buf, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to serialize credential file, cause %w", err)
	}
	if err := os.WriteFile(file, buf, 0644); err != nil {
		return fmt.Errorf("unable to write credential file %v, cause %w", file, err)
	}
	return nil
}

// FindUser returns a pointer into users for the given username, or nil.
func FindUser(users []User, username string) *User {
	for i := range users {
		if users[i].Username == username {
			return &users[i]
		}
	}
	return nil
}

// CountRole returns how many users carry the given role.
func CountRole(users []User, role string) int {
	var n int
	for i := range users {
		if users[i].Role == role {
			n++
		}
	}
	return n
}
