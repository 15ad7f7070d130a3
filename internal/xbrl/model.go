package xbrl

import (
	"strings"

	"golang.org/x/text/language"
)

// Standard label roles.
const (
	RoleLabel         = "http://www.xbrl.org/2003/role/label"
	RoleTerseLabel    = "http://www.xbrl.org/2003/role/terseLabel"
	RoleVerboseLabel  = "http://www.xbrl.org/2003/role/verboseLabel"
	RoleDocumentation = "http://www.xbrl.org/2003/role/documentation"
)

// Label is a label resource attached to a concept.
type Label struct {
	Role string
	Lang string
	Text string
}

// Concept is a taxonomy element declaration.
type Concept struct {
	Name              QName
	ID                string
	Type              QName
	SubstitutionGroup QName
	PeriodType        string
	Balance           string
	Abstract          bool
	Nillable          bool

	labels []Label
}

// NewConcept creates a concept with the given labels.
func NewConcept(name QName, labels ...Label) *Concept {
	c := &Concept{Name: name}
	for _, l := range labels {
		c.AddLabel(l)
	}
	return c
}

// AddLabel attaches a label, ignoring exact duplicates.
func (c *Concept) AddLabel(l Label) {
	for _, have := range c.labels {
		if have == l {
			return
		}
	}
	c.labels = append(c.labels, l)
}

// Labels returns a copy of every attached label.
func (c *Concept) Labels() []Label {
	out := make([]Label, len(c.labels))
	copy(out, c.labels)
	return out
}

// Label returns the text of the best label with the given role and language.
// An empty role means the standard label. An exact language tag wins over a
// base-language match ("en" matches "en-IN"). Returns "" when nothing matches.
func (c *Concept) Label(role, lang string) string {
	if c == nil {
		return ""
	}
	if role == "" {
		role = RoleLabel
	}
	best, bestScore := "", 0
	for _, l := range c.labels {
		if l.Role != role || l.Text == "" {
			continue
		}
		if s := langScore(lang, l.Lang); s > bestScore {
			best, bestScore = l.Text, s
		}
	}
	return best
}

// Numeric reports whether the concept's type is one of the XBRL numeric item types.
func (c *Concept) Numeric() bool {
	if c == nil || c.Type.Space != NSInstance {
		return false
	}
	_, ok := numericItemTypes[c.Type.Local]
	return ok
}

var numericItemTypes = map[string]struct{}{
	"decimalItemType": {}, "floatItemType": {}, "doubleItemType": {},
	"integerItemType": {}, "nonPositiveIntegerItemType": {}, "negativeIntegerItemType": {},
	"longItemType": {}, "intItemType": {}, "shortItemType": {}, "byteItemType": {},
	"nonNegativeIntegerItemType": {}, "unsignedLongItemType": {}, "unsignedIntItemType": {},
	"unsignedShortItemType": {}, "unsignedByteItemType": {}, "positiveIntegerItemType": {},
	"monetaryItemType": {}, "sharesItemType": {}, "pureItemType": {}, "fractionItemType": {},
}

func langScore(want, have string) int {
	if want == "" {
		return 1
	}
	if strings.EqualFold(want, have) {
		return 3
	}
	wt, err := language.Parse(want)
	if err != nil {
		return 0
	}
	ht, err := language.Parse(have)
	if err != nil {
		return 0
	}
	wb, _ := wt.Base()
	hb, _ := ht.Base()
	if wb == hb {
		return 2
	}
	return 0
}

// Period is a context period. Exactly one form is set.
type Period struct {
	Instant string
	Start   string
	End     string
	Forever bool
}

// IsInstant reports whether the period is an instant.
func (p Period) IsInstant() bool { return p.Instant != "" }

// Context is an xbrli:context.
type Context struct {
	ID           string
	EntityScheme string
	EntityID     string
	Period       Period
	HasSegment   bool
	HasScenario  bool
}

// Unit is an xbrli:unit. Divide units fill Numerator and Denominator instead of Measures.
type Unit struct {
	ID          string
	Measures    []string
	Numerator   []string
	Denominator []string
}

// Fact is a reported item value.
type Fact struct {
	Name       QName
	Concept    *Concept
	ID         string
	ContextRef string
	UnitRef    string
	Decimals   string
	Precision  string
	// Text is the whitespace-trimmed element content.
	Text string
	Nil  bool
}

// Value returns the fact's literal value, or nil for xsi:nil facts.
func (f *Fact) Value() any {
	if f.Nil {
		return nil
	}
	return f.Text
}

// Severity grades a validation message.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// ValidationError is one message from DTS discovery or instance validation.
type ValidationError struct {
	Severity Severity
	Code     string
	Message  string
	Document string
}

func (v ValidationError) String() string {
	return "[" + v.Code + "] " + v.Message
}

// Model is a loaded instance with its DTS.
type Model struct {
	systemID   string
	facts      []*Fact
	concepts   map[QName]*Concept
	conceptIDs map[string]*Concept
	contexts   map[string]*Context
	units      map[string]*Unit
	documents  []string
	errs       []ValidationError
	closed     bool
}

func newModel(systemID string) *Model {
	return &Model{
		systemID:   systemID,
		concepts:   make(map[QName]*Concept),
		conceptIDs: make(map[string]*Concept),
		contexts:   make(map[string]*Context),
		units:      make(map[string]*Unit),
	}
}

// SystemID returns the path of the loaded instance.
func (m *Model) SystemID() string { return m.systemID }

// Facts returns the facts in document order.
func (m *Model) Facts() []*Fact { return m.facts }

// Concept returns the concept declared for name, or nil.
func (m *Model) Concept(name QName) *Concept { return m.concepts[name.key()] }

// Context returns the context with the given id, or nil.
func (m *Model) Context(id string) *Context { return m.contexts[id] }

// Unit returns the unit with the given id, or nil.
func (m *Model) Unit(id string) *Unit { return m.units[id] }

// Documents returns every DTS document loaded, in discovery order.
func (m *Model) Documents() []string { return m.documents }

// Errors returns validation messages collected while loading.
func (m *Model) Errors() []ValidationError { return m.errs }

// Closed reports whether Close was called.
func (m *Model) Closed() bool { return m.closed }

// Close releases the model. Accessors return empty results afterwards.
func (m *Model) Close() {
	if m == nil || m.closed {
		return
	}
	m.closed = true
	m.facts = nil
	m.concepts = nil
	m.conceptIDs = nil
	m.contexts = nil
	m.units = nil
	m.documents = nil
	m.errs = nil
}

func (m *Model) report(sev Severity, code, doc, msg string) {
	m.errs = append(m.errs, ValidationError{Severity: sev, Code: code, Message: msg, Document: doc})
}
