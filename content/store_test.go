package content

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	type testCase struct {
		id    string
		valid bool
	}
	for _, tc := range []testCase{
		{"rust", true},
		{"nested/go", true},
		{"a/b/c", true},
		{"../../etc/passwd", false},
		{"../sibling", false},
		{"a/../../escape", false},
		{"/etc/passwd", false},
		// the extension is appended before joining, so a bare ".."
		// is just the odd in-root filename "...json"
		{"..", true},
	} {
		_, err := Resolve(root, tc.id, ExtJSON)
		if tc.valid && err != nil {
			t.Errorf("id %v should resolve, got %v", tc.id, err)
		}
		if !tc.valid {
			var traversal PathTraversalError
			if !errors.As(err, &traversal) {
				t.Errorf("id %v should be rejected as traversal, got %v", tc.id, err)
			}
		}
	}
}

func TestResolveAppendsExtensionBeforeJoining(t *testing.T) {
	root := t.TempDir()
	resolved, err := Resolve(root, "..", ExtJSON)
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(root)
	if resolved != filepath.Join(abs, "...json") {
		t.Fatalf("id .. should name the in-root file ...json, got %v", resolved)
	}
}

func TestResolveStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	resolved, err := Resolve(root, "nested/item", ExtJSON)
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(root)
	if !strings.HasPrefix(resolved, abs+string(filepath.Separator)) {
		t.Fatalf("resolved path %v escaped root %v", resolved, abs)
	}
}

func TestCreateConflict(t *testing.T) {
	root := t.TempDir()
	data := map[string]interface{}{"name": "Rust", "level": "comfortable"}
	require.NoError(t, CreateJSON(root, "rust", data))

	err := CreateJSON(root, "rust", data)
	var conflict ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "rust", conflict.ID)

	// the file holds pretty-printed JSON
	buf, err := os.ReadFile(filepath.Join(root, "rust.json"))
	require.NoError(t, err)
	require.Contains(t, string(buf), "\n  \"name\": \"Rust\"")
}

func TestCreateNestedMakesParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, CreateJSON(root, "langs/systems/rust", map[string]interface{}{"name": "Rust"}))
	if _, err := os.Stat(filepath.Join(root, "langs", "systems", "rust.json")); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateRequiresExisting(t *testing.T) {
	root := t.TempDir()
	err := UpdateJSON(root, "missing", map[string]interface{}{})
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("update of a missing item should be NotFoundError, got %v", err)
	}

	require.NoError(t, CreateJSON(root, "item", map[string]interface{}{"v": 1}))
	require.NoError(t, UpdateJSON(root, "item", map[string]interface{}{"v": 2}))
	buf, err := os.ReadFile(filepath.Join(root, "item.json"))
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf, &got))
	require.Equal(t, float64(2), got["v"])
}

func TestDeleteRequiresExisting(t *testing.T) {
	root := t.TempDir()
	err := Delete(root, "missing", ExtJSON)
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("delete of a missing item should be NotFoundError, got %v", err)
	}

	require.NoError(t, CreateJSON(root, "nested/item", map[string]interface{}{}))
	require.NoError(t, Delete(root, "nested/item", ExtJSON))
	if _, err := os.Stat(filepath.Join(root, "nested", "item.json")); err == nil {
		t.Fatal("file should be gone")
	}
	// the now-empty parent directory stays behind
	if _, err := os.Stat(filepath.Join(root, "nested")); err != nil {
		t.Fatal("parent directory should survive the delete")
	}
}

func TestListJSONRecursive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, CreateJSON(root, "rust", map[string]interface{}{"name": "Rust"}))
	require.NoError(t, CreateJSON(root, "nested/go", map[string]interface{}{"name": "Go"}))
	// a file the store cannot parse still shows up, with nil data
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte("{oops"), 0644))
	// non-json files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignore me"), 0644))

	items, err := ListJSON(root)
	require.NoError(t, err)

	byID := map[string]Item{}
	for _, it := range items {
		byID[it.ID] = it
	}
	require.Len(t, byID, 3)
	require.Equal(t, map[string]interface{}{"name": "Go"}, byID["nested/go"].Data)
	require.Equal(t, map[string]interface{}{"name": "Rust"}, byID["rust"].Data)
	require.Nil(t, byID["broken"].Data)
}

func TestListJSONMissingRoot(t *testing.T) {
	items, err := ListJSON(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestValidType(t *testing.T) {
	for _, v := range ValidTypes {
		if !ValidType(v) {
			t.Errorf("%v should be a valid type", v)
		}
	}
	for _, v := range []string{"", "posts", "users", "Projects", "skills/"} {
		if ValidType(v) {
			t.Errorf("%v should not be a valid type", v)
		}
	}
}
