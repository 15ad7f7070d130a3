package xbrl

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveKind identifies why a document is being resolved.
type ResolveKind uint8

const (
	ResolveSchemaRef ResolveKind = iota
	ResolveImport
	ResolveInclude
	ResolveLinkbase
	ResolveLocator
)

func (k ResolveKind) String() string {
	switch k {
	case ResolveSchemaRef:
		return "schemaRef"
	case ResolveImport:
		return "import"
	case ResolveInclude:
		return "include"
	case ResolveLinkbase:
		return "linkbaseRef"
	case ResolveLocator:
		return "loc"
	default:
		return "unknown"
	}
}

// ResolveRequest describes a reference found in BaseSystemID.
type ResolveRequest struct {
	BaseSystemID string
	Location     string
	Kind         ResolveKind
}

// Resolver maps references onto local documents. It never touches the network.
type Resolver interface {
	// SystemID returns the canonical identifier of the referenced document.
	SystemID(req ResolveRequest) (string, error)
	// Open opens a document previously identified by SystemID.
	Open(systemID string) (io.ReadCloser, error)
}

// Mirror maps absolute remote URIs onto local copies.
type Mirror interface {
	MirrorPath(uri string) (string, bool)
}

// ErrOffline is returned for remote references with no local copy.
var ErrOffline = errors.New("xbrl: remote document not available offline")

// FileResolver resolves references against the local filesystem.
// Relative locations are joined with the directory of the referencing document,
// file:// URIs are used as is and http(s) URIs go through the mirror.
type FileResolver struct {
	mirror Mirror
}

// NewFileResolver creates a FileResolver. mirror may be nil.
func NewFileResolver(mirror Mirror) *FileResolver {
	return &FileResolver{mirror: mirror}
}

// SystemID implements Resolver. System IDs are absolute, cleaned filesystem paths.
func (r *FileResolver) SystemID(req ResolveRequest) (string, error) {
	loc := strings.TrimSpace(req.Location)
	if i := strings.IndexByte(loc, '#'); i >= 0 {
		loc = loc[:i]
	}
	if loc == "" {
		if req.BaseSystemID != "" {
			// A bare fragment refers to the base document itself.
			return req.BaseSystemID, nil
		}
		return "", fmt.Errorf("empty %s location: %w", req.Kind, fs.ErrNotExist)
	}
	if strings.Contains(loc, "\\") {
		loc = strings.ReplaceAll(loc, "\\", "/")
	}

	u, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parse %s location %q: %w", req.Kind, loc, err)
	}

	switch {
	case u.Scheme == "file":
		return filePath(u), nil
	case u.Scheme == "http" || u.Scheme == "https":
		if r.mirror != nil {
			if p, ok := r.mirror.MirrorPath(u.String()); ok {
				return filepath.Clean(p), nil
			}
		}
		return "", fmt.Errorf("%s %s: %w", req.Kind, loc, ErrOffline)
	case len(u.Scheme) > 1:
		return "", fmt.Errorf("%s %s: unsupported scheme %q", req.Kind, loc, u.Scheme)
	}

	// Single-letter schemes are Windows drive letters.
	if filepath.IsAbs(loc) {
		return filepath.Clean(loc), nil
	}
	rel := filepath.FromSlash(u.Path)
	if len(u.Scheme) == 1 {
		rel = filepath.FromSlash(loc)
	}
	if req.BaseSystemID == "" {
		abs, err := filepath.Abs(rel)
		if err != nil {
			return "", fmt.Errorf("absolute path of %s: %w", rel, err)
		}
		return abs, nil
	}
	return filepath.Join(filepath.Dir(req.BaseSystemID), rel), nil
}

// Open implements Resolver.
func (r *FileResolver) Open(systemID string) (io.ReadCloser, error) {
	f, err := os.Open(systemID)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func filePath(u *url.URL) string {
	p := u.Path
	if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	if u.Host != "" && u.Host != "localhost" {
		p = "//" + u.Host + p
	}
	return filepath.Clean(filepath.FromSlash(p))
}
