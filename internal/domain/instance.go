package domain

import (
	"path/filepath"
	"strings"
)

// KeyPrefix namespaces every key this service writes to the cache store.
var KeyPrefix = "nsexbrl:"

const defaultInstanceName = "instance.xml"

// InstanceDocument is an XBRL filing read once at request time.
// The file on disk is never modified.
type InstanceDocument struct {
	// Path is the source path; empty for uploaded content.
	Path    string
	Content []byte
	// SchemaRef is derived by the pipeline, not read from storage.
	SchemaRef string
}

// NewInstanceDocument builds a document from already loaded content.
func NewInstanceDocument(path string, content []byte) InstanceDocument {
	return InstanceDocument{Path: path, Content: content}
}

// Name returns a safe base file name for staging copies.
func (d InstanceDocument) Name() string {
	if d.Path == "" {
		return defaultInstanceName
	}
	name := filepath.Base(filepath.Clean(d.Path))
	if name == "." || name == string(filepath.Separator) || name == ".." || strings.TrimSpace(name) == "" {
		return defaultInstanceName
	}
	return name
}
