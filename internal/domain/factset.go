package domain

import "encoding/json"

// Fact is one reported value keyed by its human-readable label.
type Fact struct {
	Label string `json:"label"`
	QName string `json:"qname"`
	// Value is passed through from the engine unchanged; nil for xsi:nil facts.
	Value any `json:"value"`
}

// FactSet keeps facts in document order.
// Map collapses duplicate labels: the later fact wins.
type FactSet struct {
	facts []Fact
}

// NewFactSet creates a FactSet over a copy of facts.
func NewFactSet(facts []Fact) FactSet {
	cp := make([]Fact, len(facts))
	copy(cp, facts)
	return FactSet{facts: cp}
}

// Len returns the number of facts, duplicates included.
func (s FactSet) Len() int { return len(s.facts) }

// Empty reports whether the set holds no facts.
func (s FactSet) Empty() bool { return len(s.facts) == 0 }

// Facts returns a copy of the ordered facts.
func (s FactSet) Facts() []Fact {
	cp := make([]Fact, len(s.facts))
	copy(cp, s.facts)
	return cp
}

// Map flattens the set into label -> value.
func (s FactSet) Map() map[string]any {
	m := make(map[string]any, len(s.facts))
	for _, f := range s.facts {
		m[f.Label] = f.Value
	}
	return m
}

// MarshalJSON encodes the ordered facts.
func (s FactSet) MarshalJSON() ([]byte, error) {
	if s.facts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.facts)
}

// UnmarshalJSON decodes the ordered facts.
func (s *FactSet) UnmarshalJSON(data []byte) error {
	var facts []Fact
	if err := json.Unmarshal(data, &facts); err != nil {
		return err
	}
	s.facts = facts
	return nil
}
