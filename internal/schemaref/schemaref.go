// Package schemaref finds and rewrites the schemaRef declaration of an XBRL instance.
package schemaref

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
)

const (
	elementName = "schemaRef"
	hrefAttr    = "href"
)

var (
	// ErrInvalidUTF8 is returned by Rewrite for content that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("content is not valid UTF-8")
	// ErrNotFound is returned by Rewrite when no schemaRef href is present.
	ErrNotFound = errors.New("schemaRef href not found")
)

// tagPattern matches a schemaRef start tag at the beginning of its input and
// captures the href value. Both names may carry any prefix.
var tagPattern = regexp.MustCompile(`^<(?:[\w.-]+:)?schemaRef\b[^>]*?\s(?:[\w.-]+:)?href\s*=\s*["']([^"']+)["']`)

// hrefPattern is the last resort for markup too broken to tokenize.
var hrefPattern = regexp.MustCompile(`schemaRef[^>]*?href\s*=\s*["']([^"']+)["']`)

// Markup whose content is not element markup.
var opaque = []struct{ open, close string }{
	{"<!--", "-->"},
	{"<![CDATA[", "]]>"},
	{"<?", "?>"},
}

// Extract returns the schema reference declared by an instance document.
// Well-formed XML is walked element by element; anything the XML reader rejects
// is scanned textually instead.
func Extract(content []byte) (string, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err == nil {
		if ref, ok := fromTree(doc.Root()); ok {
			return ref, true
		}
		return "", false
	}
	return fromText(content)
}

func fromTree(el *etree.Element) (string, bool) {
	if el == nil {
		return "", false
	}
	if el.Tag == elementName {
		for _, a := range el.Attr {
			if a.Key == hrefAttr && a.Value != "" {
				return a.Value, true
			}
		}
	}
	for _, child := range el.ChildElements() {
		if ref, ok := fromTree(child); ok {
			return ref, true
		}
	}
	return "", false
}

func fromText(content []byte) (string, bool) {
	content = bytes.ToValidUTF8(content, nil)
	start, end, ok := locate(content)
	if !ok {
		return "", false
	}
	return string(content[start:end]), true
}

// locate returns the byte range of the first schemaRef href value. Start tags
// are matched in document order with comments, CDATA sections and processing
// instructions skipped; hrefPattern is tried only when no start tag matches.
func locate(content []byte) (int, int, bool) {
	for i := 0; i < len(content); {
		j := bytes.IndexByte(content[i:], '<')
		if j < 0 {
			break
		}
		i += j
		if end, skip := skipOpaque(content, i); skip {
			i = end
			continue
		}
		if m := tagPattern.FindSubmatchIndex(content[i:]); m != nil {
			return i + m[2], i + m[3], true
		}
		i++
	}
	if m := hrefPattern.FindSubmatchIndex(content); m != nil {
		return m[2], m[3], true
	}
	return 0, 0, false
}

// skipOpaque reports whether content[i:] opens a comment, CDATA section or
// processing instruction, and where it ends. Unterminated sections run to EOF.
func skipOpaque(content []byte, i int) (int, bool) {
	for _, o := range opaque {
		if !bytes.HasPrefix(content[i:], []byte(o.open)) {
			continue
		}
		body := i + len(o.open)
		k := bytes.Index(content[body:], []byte(o.close))
		if k < 0 {
			return len(content), true
		}
		return body + k + len(o.close), true
	}
	return i, false
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Rewrite returns a copy of content with the href of the first schemaRef
// element replaced by href. Mentions inside comments, CDATA sections and
// processing instructions are left alone. The rest of the document is
// preserved byte for byte.
func Rewrite(content []byte, href string) ([]byte, error) {
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}
	start, end, ok := locate(content)
	if !ok {
		return nil, ErrNotFound
	}
	escaped := attrEscaper.Replace(href)

	out := make([]byte, 0, len(content)-(end-start)+len(escaped))
	out = append(out, content[:start]...)
	out = append(out, escaped...)
	out = append(out, content[end:]...)
	return out, nil
}
