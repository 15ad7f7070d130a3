package schemaref

import (
	"errors"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{
			name: "namespaced xlink href",
			content: `<?xml version="1.0" encoding="UTF-8"?>
<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance"
            xmlns:link="http://www.xbrl.org/2003/linkbase"
            xmlns:xlink="http://www.w3.org/1999/xlink">
  <link:schemaRef xlink:type="simple" xlink:href="in-capmkt-ent-2024-03-31.xsd"/>
</xbrli:xbrl>`,
			want:   "in-capmkt-ent-2024-03-31.xsd",
			wantOK: true,
		},
		{
			name:    "undeclared prefix bare href",
			content: `<xbrl><link:schemaRef href="fake-schema-2099-01-01.xsd"/></xbrl>`,
			want:    "fake-schema-2099-01-01.xsd",
			wantOK:  true,
		},
		{
			name:    "relative path kept literally",
			content: `<xbrl><schemaRef href="../core/in-gaap.xsd"/></xbrl>`,
			want:    "../core/in-gaap.xsd",
			wantOK:  true,
		},
		{
			name:    "no schemaRef",
			content: `<xbrl></xbrl>`,
			wantOK:  false,
		},
		{
			name:    "malformed falls back to text scan",
			content: `<xbrl><link:schemaRef xlink:href='broken.xsd'/><<</xbrl>`,
			want:    "broken.xsd",
			wantOK:  true,
		},
		{
			name:    "malformed skips commented reference",
			content: `<xbrl><!-- was: schemaRef href="old-2019.xsd" --><link:schemaRef xlink:href="new.xsd"/><</xbrl>`,
			want:    "new.xsd",
			wantOK:  true,
		},
		{
			name:    "malformed without reference",
			content: `<xbrl><<</xbrl>`,
			wantOK:  false,
		},
		{
			name:    "invalid utf8 falls back and ignores bad bytes",
			content: "<xbrl>\xff\xfe<schemaRef href=\"a.xsd\"/></xbrl",
			want:    "a.xsd",
			wantOK:  true,
		},
		{
			name:    "empty input",
			content: "",
			wantOK:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extract([]byte(tc.content))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v (got %q)", ok, tc.wantOK, got)
			}
			if got != tc.want {
				t.Errorf("ref = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRewrite(t *testing.T) {
	in := `<xbrl><link:schemaRef xlink:type="simple" xlink:href="a.xsd"/><x:f contextRef="c">1</x:f></xbrl>`
	out, err := Rewrite([]byte(in), "file:///opt/tax/a&b/a.xsd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<xbrl><link:schemaRef xlink:type="simple" xlink:href="file:///opt/tax/a&amp;b/a.xsd"/><x:f contextRef="c">1</x:f></xbrl>`
	if string(out) != want {
		t.Errorf("rewrite mismatch:\ngot:  %s\nwant: %s", out, want)
	}
	if in != `<xbrl><link:schemaRef xlink:type="simple" xlink:href="a.xsd"/><x:f contextRef="c">1</x:f></xbrl>` {
		t.Error("input must not be modified")
	}
}

func TestRewrite_OnlyFirst(t *testing.T) {
	in := `<schemaRef href="a.xsd"/><schemaRef href="b.xsd"/>`
	out, err := Rewrite([]byte(in), "file:///x.xsd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(string(out), "file:///x.xsd") != 1 || !strings.Contains(string(out), `"b.xsd"`) {
		t.Errorf("expected only the first href rewritten, got %s", out)
	}
}

func TestRewrite_Errors(t *testing.T) {
	if _, err := Rewrite([]byte("<xbrl>\xff</xbrl>"), "file:///x"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
	if _, err := Rewrite([]byte("<xbrl></xbrl>"), "file:///x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRewrite_SkipsNonElementMentions(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"comment", `<!-- prior filing: schemaRef href="old-2019.xsd" -->`},
		{"cdata", `<note><![CDATA[<schemaRef href="old-2019.xsd"/>]]></note>`},
		{"processing instruction", `<?audit schemaRef href="old-2019.xsd"?>`},
		{"text mention", `<note>the schemaRef href="old-2019.xsd" moved</note>`},
		{"unrelated element", `<link:schemaRefs href="old-2019.xsd"/>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := `<xbrl>` + tc.prefix + `<link:schemaRef xlink:type="simple" xlink:href="entry.xsd"/></xbrl>`
			if ref, ok := Extract([]byte(in)); !ok || ref != "entry.xsd" {
				t.Fatalf("Extract = %q, %v", ref, ok)
			}

			out, err := Rewrite([]byte(in), "file:///tax/entry.xsd")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(string(out), `xlink:href="file:///tax/entry.xsd"`) {
				t.Errorf("schemaRef element not rewritten: %s", out)
			}
			if !strings.Contains(string(out), tc.prefix) {
				t.Errorf("non-element mention changed: %s", out)
			}
		})
	}
}

func TestRewrite_UnterminatedCommentFallsBack(t *testing.T) {
	in := `<xbrl><!-- <schemaRef href="a.xsd"/>`
	out, err := Rewrite([]byte(in), "file:///x.xsd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `href="file:///x.xsd"`) {
		t.Errorf("text fallback not applied: %s", out)
	}
}
