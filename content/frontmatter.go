package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the structured metadata block prefixed to a post body.
// Key order is not significant.
type Frontmatter map[string]interface{}

// ParseFrontmatter splits a raw Markdown document into its frontmatter
// block and body. A document that does not open with a `---` line (or
// never closes the block) is all body. Malformed YAML inside the block
// is an error, callers decide how tolerant to be.
func ParseFrontmatter(raw string) (Frontmatter, string, error) {
	nl := strings.IndexByte(raw, '\n')
	if nl < 0 {
		return Frontmatter{}, raw, nil
	}
	if strings.TrimRight(raw[:nl], "\r") != "---" {
		return Frontmatter{}, raw, nil
	}
	rest := raw[nl+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return Frontmatter{}, raw, nil
	}
	block := strings.TrimSuffix(rest[:end], "\r")
	body := rest[end+len("\n---"):]
	switch {
	case strings.HasPrefix(body, "\r\n"):
		body = body[2:]
	case strings.HasPrefix(body, "\n"):
		body = body[1:]
	}
	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, "", fmt.Errorf("unable to parse frontmatter block, cause %w", err)
	}
	if fm == nil {
		fm = Frontmatter{}
	}
	return fm, body, nil
}

// SerializeFrontmatter re-emits a document from its frontmatter and
// body. The block is written in canonical YAML, so a parse/serialize
// round trip preserves keys, values and body but not necessarily the
// original bytes.
func SerializeFrontmatter(fm Frontmatter, body string) (string, error) {
	buf, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("unable to serialize frontmatter block, cause %w", err)
	}
	block := strings.TrimRight(string(buf), "\n")
	return "---\n" + block + "\n---\n" + body, nil
}

// ListPosts walks root recursively and returns one flattened entry per
// Markdown file: the frontmatter keys at the top level plus id and
// content. A post that cannot be read or parsed still yields its id
// with an empty content, the listing never fails on a single bad file.
func ListPosts(root string) ([]map[string]interface{}, error) {
	posts := []map[string]interface{}{}
	if _, err := os.Stat(root); err != nil {
		return posts, nil
	}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ExtMarkdown) {
			return nil
		}
		id, err := relativeID(root, p, ExtMarkdown)
		if err != nil {
			return err
		}
		entry := map[string]interface{}{"id": id, "content": ""}
		if buf, rerr := os.ReadFile(p); rerr == nil {
			if fm, body, perr := ParseFrontmatter(string(buf)); perr == nil {
				for k, v := range fm {
					entry[k] = v
				}
				entry["id"] = id
				entry["content"] = body
			}
		}
		posts = append(posts, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list posts under %v, cause %w", root, err)
	}
	return posts, nil
}
