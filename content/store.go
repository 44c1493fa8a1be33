// Package content implements the file-backed store behind the admin
// API: JSON documents partitioned by content type plus Markdown posts
// with a YAML frontmatter block. Every path that touches the
// filesystem is resolved through a single safety check so no id can
// escape its content root.
package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	ExtJSON     = ".json"
	ExtMarkdown = ".md"
)

// PostsDir is the directory under the content root that holds the
// Markdown posts. It is not a content type, posts have their own
// endpoint and their own on-disk format.
const PostsDir = "posts"

// ValidTypes is the closed set of content categories. Each one maps to
// a directory of JSON documents under the content root.
var ValidTypes = []string{
	"projects",
	"skills",
	"timeline",
	"friends",
	"diary",
	"albums",
	"navigation",
}

// ValidType reports whether t is a known content type.
func ValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

type (
	// Item is one entry of a JSON content listing. Data is nil when the
	// file on disk could not be parsed.
	Item struct {
		ID   string      `json:"id"`
		Data interface{} `json:"data"`
	}
)

// Resolve joins id onto root and returns the absolute file path,
// rejecting any id whose canonical location is not strictly inside
// root. This is the security boundary every read/write/delete goes
// through; it performs no filesystem access.
func Resolve(root, id, ext string) (string, error) {
	if path.IsAbs(id) || filepath.IsAbs(id) {
		return "", PathTraversalError{ID: id}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("unable to resolve content root %v, cause %w", root, err)
	}
	resolved := filepath.Join(abs, filepath.FromSlash(id)+ext)
	if !strings.HasPrefix(resolved, abs+string(filepath.Separator)) {
		return "", PathTraversalError{ID: id}
	}
	return resolved, nil
}

// Create writes a new file for id, creating parent directories as
// needed. It never overwrites: an existing file yields ConflictError.
func Create(root, id, ext string, buf []byte) error {
	target, err := Resolve(root, id, ext)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err == nil {
		return ConflictError{ID: id}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("unable to create directory for %v, cause %w", id, err)
	}
	if err := os.WriteFile(target, buf, 0644); err != nil {
		return fmt.Errorf("unable to write content item %v, cause %w", id, err)
	}
	return nil
}

// Update overwrites the file for id wholesale. A missing file yields
// NotFoundError, nothing is merged or versioned.
func Update(root, id, ext string, buf []byte) error {
	target, err := Resolve(root, id, ext)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err != nil {
		return NotFoundError{ID: id}
	}
	if err := os.WriteFile(target, buf, 0644); err != nil {
		return fmt.Errorf("unable to write content item %v, cause %w", id, err)
	}
	return nil
}

// Delete removes the file for id. Parent directories left empty behind
// it are kept.
func Delete(root, id, ext string) error {
	target, err := Resolve(root, id, ext)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err != nil {
		return NotFoundError{ID: id}
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("unable to delete content item %v, cause %w", id, err)
	}
	return nil
}

// CreateJSON stores data as a new pretty-printed JSON document.
func CreateJSON(root, id string, data interface{}) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to serialize content item %v, cause %w", id, err)
	}
	return Create(root, id, ExtJSON, buf)
}

// UpdateJSON overwrites an existing JSON document with data.
func UpdateJSON(root, id string, data interface{}) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to serialize content item %v, cause %w", id, err)
	}
	return Update(root, id, ExtJSON, buf)
}

// ListJSON walks root recursively and returns one Item per JSON file,
// with ids built from the path relative to root (slash separated,
// extension stripped). A file that fails to parse still yields its
// entry, with nil data, instead of aborting the whole listing. A
// missing root is an empty listing, not an error.
func ListJSON(root string) ([]Item, error) {
	items := []Item{}
	if _, err := os.Stat(root); err != nil {
		return items, nil
	}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ExtJSON) {
			return nil
		}
		id, err := relativeID(root, p, ExtJSON)
		if err != nil {
			return err
		}
		item := Item{ID: id}
		if buf, err := os.ReadFile(p); err == nil {
			var data interface{}
			if json.Unmarshal(buf, &data) == nil {
				item.Data = data
			}
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list content under %v, cause %w", root, err)
	}
	return items, nil
}

func relativeID(root, file, ext string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("unable to build id for %v, cause %w", file, err)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ext), nil
}
