package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/nsexbrl/internal/taxonomy"
)

// --- Mocks ---

type mockArchive struct {
	stats taxonomy.Stats
	err   error
}

func (m *mockArchive) Stats(_ context.Context) (taxonomy.Stats, error) { return m.stats, m.err }

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

func healthyArchive() *mockArchive {
	return &mockArchive{stats: taxonomy.Stats{Root: "/opt/taxonomies", Schemas: 42, Linkbases: 90}}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(healthyArchive(), &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[CheckArchive] != CheckOK {
		t.Errorf("expected archive %q, got %q", CheckOK, r.Checks[CheckArchive])
	}
	if r.Checks[CheckCache] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks[CheckCache])
	}
	if r.Schemas != 42 {
		t.Errorf("expected 42 schemas, got %d", r.Schemas)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(healthyArchive(), &mockCachePinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckCache] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks[CheckCache])
	}
}

func TestCheck_ArchiveError(t *testing.T) {
	svc := New(&mockArchive{err: errors.New("no such directory")}, &mockCachePinger{err: errors.New("down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[CheckArchive] != CheckError {
		t.Error("expected archive error")
	}
	if r.Checks[CheckCache] != CheckError {
		t.Error("expected cache error")
	}
}

func TestCheck_EmptyArchive(t *testing.T) {
	svc := New(&mockArchive{stats: taxonomy.Stats{Root: "/empty"}}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(healthyArchive(), nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[CheckCache]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}
