package nsexbrl

// Fact is one reported value.
type Fact struct {
	Label string
	QName string
	// Value is the literal fact value; nil for xsi:nil facts.
	Value any
}

// Result is a finished extraction.
type Result struct {
	SchemaRef  string
	SchemaPath string
	// Facts maps labels to values. Later facts win on duplicate labels.
	Facts map[string]any
	// Ordered keeps every fact in document order, duplicates included.
	Ordered []Fact
	// Cached is set when the facts came from the fact cache.
	Cached bool
}

// Location is the archive resolution of a schema reference.
type Location struct {
	Ref  string
	Path string
	// Candidates lists every archive file with the same name, best first.
	Candidates []string
}
