package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
)

func TestExtraction_ObserveOutcome(t *testing.T) {
	m := NewExtraction("test")

	m.ObserveOutcome(nil, time.Millisecond)
	m.ObserveOutcome(domain.NewError(domain.KindSchemaUnresolvable, nil), time.Millisecond)
	m.ObserveOutcome(domain.NewError(domain.KindSchemaUnresolvable, nil), time.Millisecond)
	m.ObserveOutcome(errors.New("plain"), time.Millisecond)

	if v := testutil.ToFloat64(m.Total.WithLabelValues(OutcomeOK)); v != 1 {
		t.Errorf("ok = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.Total.WithLabelValues("schema_unresolvable")); v != 2 {
		t.Errorf("schema_unresolvable = %f, want 2", v)
	}
	if v := testutil.ToFloat64(m.Total.WithLabelValues("unknown")); v != 1 {
		t.Errorf("unknown = %f, want 1", v)
	}
}

func TestExtraction_StageAndCache(t *testing.T) {
	m := NewExtraction("test")

	m.ObserveStage(domain.StageValidating, 20*time.Millisecond)
	m.ObserveCache(CacheHit)
	m.ObserveCache(CacheMiss)
	m.ObserveCache(CacheMiss)

	if n := testutil.CollectAndCount(m.StageDuration); n != 1 {
		t.Errorf("stage series = %d, want 1", n)
	}
	if v := testutil.ToFloat64(m.CacheTotal.WithLabelValues(CacheMiss)); v != 2 {
		t.Errorf("miss = %f, want 2", v)
	}
}

func TestExtraction_RegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewExtraction("test")
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	m.StagedActive.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_staged_instances" {
			found = true
		}
	}
	if !found {
		t.Error("test_staged_instances not gathered")
	}
}
