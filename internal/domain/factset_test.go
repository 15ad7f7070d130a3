package domain

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFactSet_MapLaterFactWins(t *testing.T) {
	fs := NewFactSet([]Fact{
		{Label: "Revenue", QName: "in-bse-fin:RevenueFromOperations", Value: "100"},
		{Label: "Revenue", QName: "in-bse-fin:Revenue", Value: "200"},
		{Label: "Profit", QName: "in-bse-fin:ProfitLoss", Value: nil},
	})

	if fs.Len() != 3 {
		t.Fatalf("Len = %d, want 3", fs.Len())
	}
	m := fs.Map()
	if len(m) != 2 {
		t.Fatalf("map size = %d, want 2", len(m))
	}
	if m["Revenue"] != "200" {
		t.Errorf("Revenue = %v, want later value 200", m["Revenue"])
	}
	if v, ok := m["Profit"]; !ok || v != nil {
		t.Errorf("Profit = %v (present=%v), want nil present", v, ok)
	}
}

func TestFactSet_CopiesInput(t *testing.T) {
	in := []Fact{{Label: "A", Value: "1"}}
	fs := NewFactSet(in)
	in[0].Label = "B"
	if fs.Facts()[0].Label != "A" {
		t.Error("FactSet must not alias the input slice")
	}
}

func TestFactSet_JSON(t *testing.T) {
	fs := NewFactSet([]Fact{{Label: "A", QName: "x:A", Value: "1"}})
	data, err := json.Marshal(fs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back FactSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 1 || back.Facts()[0].QName != "x:A" || back.Map()["A"] != "1" {
		t.Errorf("unexpected decoded set: %+v", back.Facts())
	}

	empty, err := json.Marshal(FactSet{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != "[]" {
		t.Errorf("empty set = %s, want []", empty)
	}
}

func TestInstanceDocument_Name(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "instance.xml"},
		{"/data/filings/INFY_Q3.xml", "INFY_Q3.xml"},
		{"relative/dir/a.xml", "a.xml"},
		{"/", "instance.xml"},
	}
	for _, tc := range tests {
		if got := NewInstanceDocument(tc.path, nil).Name(); got != tc.want {
			t.Errorf("Name(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestTrace_Transitions(t *testing.T) {
	ctx, tr := NewContextWithTrace(context.Background())
	if TraceFromContext(ctx) != tr {
		t.Fatal("trace not stored in context")
	}

	tr.Enter(StageScanningSchemaRef)
	tr.Enter(StageLocatingSchema)
	tr.Enter(StageFailed)
	tr.Enter(StageValidating)

	if tr.Current() != StageFailed {
		t.Errorf("Current = %v, want failed (terminal stages are sticky)", tr.Current())
	}
	timings := tr.Timings()
	if len(timings) != 3 {
		t.Fatalf("timings = %d, want 3", len(timings))
	}
	if timings[0].Stage != StageUnresolved || timings[2].Stage != StageLocatingSchema {
		t.Errorf("unexpected timings order: %+v", timings)
	}
}

func TestTrace_NilSafe(t *testing.T) {
	var tr *Trace
	tr.Enter(StageStaged)
	tr.MarkCached()
	if tr.Current() != StageUnresolved || tr.Cached() || tr.Timings() != nil {
		t.Error("nil trace must behave as empty")
	}
	if TraceFromContext(context.Background()) != nil {
		t.Error("expected nil trace from empty context")
	}
}
