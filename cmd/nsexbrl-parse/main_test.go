package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/nsexbrl/internal/xbrltest"
)

func TestRun_PrintsFacts(t *testing.T) {
	archive := xbrltest.WriteArchive(t)
	path := xbrltest.WriteInstance(t, t.TempDir(), "filing.xml", xbrltest.EntrySchema)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-archive", archive.Root, "-temp-dir", t.TempDir(), "-items", path}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	var out output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := xbrltest.ExpectedFacts()
	if out.FactCount != len(want) || len(out.Items) != len(want) {
		t.Errorf("fact_count = %d, items = %d, want %d", out.FactCount, len(out.Items), len(want))
	}
	for label, v := range want {
		if out.Facts[label] != v {
			t.Errorf("fact %q = %v, want %v", label, out.Facts[label], v)
		}
	}
	if out.SchemaRef != xbrltest.EntrySchema {
		t.Errorf("schema_ref = %q", out.SchemaRef)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	archive := xbrltest.WriteArchive(t)
	dir := t.TempDir()
	unresolvable := xbrltest.WriteInstance(t, dir, "future.xml", xbrltest.MissingSchema)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no file", []string{"-archive", archive.Root}, exitUsage},
		{"no archive", []string{filepath.Join(dir, "x.xml")}, exitUsage},
		{"bad flag", []string{"-nope"}, exitUsage},
		{"missing file", []string{"-archive", archive.Root, filepath.Join(dir, "missing.xml")}, exitInputNotFound},
		{"unresolvable", []string{"-archive", archive.Root, unresolvable}, exitSchemaUnresolvable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NSEXBRL_ARCHIVE_ROOT", "")
			var stdout, stderr bytes.Buffer
			if got := run(tt.args, &stdout, &stderr); got != tt.want {
				t.Errorf("exit code = %d, want %d (stderr %s)", got, tt.want, stderr.String())
			}
			if stdout.Len() != 0 {
				t.Errorf("unexpected stdout: %s", stdout.String())
			}
		})
	}
}

func TestRun_UnresolvableMessageNamesRef(t *testing.T) {
	archive := xbrltest.WriteArchive(t)
	path := xbrltest.WriteInstance(t, t.TempDir(), "future.xml", xbrltest.MissingSchema)

	var stdout, stderr bytes.Buffer
	run([]string{"-archive", archive.Root, path}, &stdout, &stderr)
	if !strings.Contains(stderr.String(), xbrltest.MissingSchema) {
		t.Errorf("stderr %q does not name the reference", stderr.String())
	}
}
