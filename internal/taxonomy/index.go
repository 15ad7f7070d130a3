// Package taxonomy locates schema files inside the local, read-only taxonomy archive.
package taxonomy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound signals that no archive file matches the requested reference.
var ErrNotFound = errors.New("taxonomy: schema not found in archive")

// Index resolves schema references against an archive root by file name.
// It only reads the archive.
type Index struct {
	root string
}

// Stats summarizes the archive contents.
type Stats struct {
	Root      string
	Schemas   int
	Linkbases int
	// Version fingerprints the name, size and modification time of every
	// schema and linkbase. It changes whenever any of them is replaced.
	Version string
}

// New creates an Index rooted at root. The root is made absolute when possible.
func New(root string) *Index {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Index{root: filepath.Clean(root)}
}

// Root returns the absolute archive root.
func (ix *Index) Root() string { return ix.root }

// BaseName returns the final path segment of a reference.
// Directory components, including "../", are discarded; both separators are accepted.
func BaseName(ref string) string {
	ref = strings.TrimSpace(ref)
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		ref = u.Path
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	if i := strings.IndexAny(ref, "#?"); i >= 0 {
		ref = ref[:i]
	}
	base := path.Base(ref)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// Candidates returns every archive file named like ref's base name, sorted by absolute path.
func (ix *Index) Candidates(ctx context.Context, ref string) ([]string, error) {
	name := BaseName(ref)
	if name == "" {
		return nil, fmt.Errorf("%w: empty reference %q", ErrNotFound, ref)
	}

	var matches []string
	err := filepath.WalkDir(ix.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == ix.root {
				return err
			}
			// Unreadable subtrees are skipped; the archive may carry foreign permissions.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == name {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk archive %s: %w", ix.root, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// Locate returns the lexicographically first absolute path matching ref.
// Lexicographic order is the fixed tie-break for name collisions across taxonomy versions.
func (ix *Index) Locate(ctx context.Context, ref string) (string, error) {
	matches, err := ix.Candidates(ctx, ref)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return matches[0], nil
}

// Stats counts schema and linkbase files under the root.
func (ix *Index) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Root: ix.root}
	info, err := os.Stat(ix.root)
	if err != nil {
		return st, fmt.Errorf("stat archive root: %w", err)
	}
	if !info.IsDir() {
		return st, fmt.Errorf("archive root %s is not a directory", ix.root)
	}

	// WalkDir visits entries in lexical order, so the fingerprint is stable.
	h := sha256.New()
	err = filepath.WalkDir(ix.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".xsd":
			st.Schemas++
		case ".xml":
			st.Linkbases++
		default:
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(ix.root, p)
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano())
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("walk archive %s: %w", ix.root, err)
	}
	st.Version = hex.EncodeToString(h.Sum(nil))[:16]
	return st, nil
}

// MirrorPath maps an absolute http(s) URI onto <root>/<host>/<path> when that file exists.
// Archives bundle standard taxonomies (xbrl.org, w3.org) in this layout for offline use.
func (ix *Index) MirrorPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	rel := path.Clean("/" + u.Path)
	if rel == "/" {
		return "", false
	}
	p := filepath.Join(ix.root, u.Hostname(), filepath.FromSlash(rel))
	// Join already cleaned rel; guard against hosts like ".." escaping the root.
	if !strings.HasPrefix(p, ix.root+string(filepath.Separator)) {
		return "", false
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}
