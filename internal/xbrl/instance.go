package xbrl

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// instance discovers the DTS referenced by root and then collects contexts, units and facts.
func (l *loader) instance(root *etree.Element, validate bool) error {
	systemID := l.model.systemID

	refs := 0
	for _, child := range root.ChildElements() {
		if elementName(child).Space != NSLinkbase {
			continue
		}
		var kind ResolveKind
		switch child.Tag {
		case "schemaRef":
			kind = ResolveSchemaRef
			refs++
		case "linkbaseRef":
			kind = ResolveLinkbase
		default:
			continue
		}
		href := xlink(child, "href")
		if href == "" {
			continue
		}
		if err := l.discover(ResolveRequest{BaseSystemID: systemID, Location: href, Kind: kind}); err != nil {
			return err
		}
	}
	if refs == 0 {
		l.model.report(SeverityError, CodeSchemaRefMissing, systemID, "instance has no link:schemaRef")
	}
	l.attachLabels()

	children := root.ChildElements()
	for _, child := range children {
		if elementName(child).Space != NSInstance {
			continue
		}
		switch child.Tag {
		case "context":
			ctx := parseContext(child)
			l.model.contexts[ctx.ID] = ctx
		case "unit":
			u := parseUnit(child)
			l.model.units[u.ID] = u
		}
	}

	for _, child := range children {
		if err := l.ctx.Err(); err != nil {
			return err
		}
		l.fact(child, validate)
	}
	return nil
}

// fact collects an item, or the items nested in a tuple.
func (l *loader) fact(el *etree.Element, validate bool) {
	name := elementName(el)
	switch name.Space {
	case NSInstance, NSLinkbase:
		return
	}

	contextRef := attr(el, "contextRef")
	if contextRef == "" {
		// Tuples carry no context. Their items are reported as facts in their own right.
		for _, child := range el.ChildElements() {
			l.fact(child, validate)
		}
		return
	}

	concept := l.model.concepts[name.key()]
	if concept == nil && validate {
		l.model.report(SeverityError, CodeConceptNotDeclared, l.model.systemID,
			fmt.Sprintf("element %s is not declared in the DTS", name.Clark()))
		return
	}

	l.model.facts = append(l.model.facts, &Fact{
		Name:       name,
		Concept:    concept,
		ID:         attr(el, "id"),
		ContextRef: contextRef,
		UnitRef:    attr(el, "unitRef"),
		Decimals:   attr(el, "decimals"),
		Precision:  attr(el, "precision"),
		Text:       strings.TrimSpace(el.Text()),
		Nil:        strings.TrimSpace(attrNS(el, NSXSI, "nil")) == "true",
	})
}

func parseContext(el *etree.Element) *Context {
	c := &Context{ID: attr(el, "id")}
	for _, part := range el.ChildElements() {
		switch part.Tag {
		case "entity":
			for _, e := range part.ChildElements() {
				switch e.Tag {
				case "identifier":
					c.EntityScheme = attr(e, "scheme")
					c.EntityID = strings.TrimSpace(e.Text())
				case "segment":
					c.HasSegment = true
				}
			}
		case "period":
			for _, p := range part.ChildElements() {
				v := strings.TrimSpace(p.Text())
				switch p.Tag {
				case "instant":
					c.Period.Instant = v
				case "startDate":
					c.Period.Start = v
				case "endDate":
					c.Period.End = v
				case "forever":
					c.Period.Forever = true
				}
			}
		case "scenario":
			c.HasScenario = true
		}
	}
	return c
}

func parseUnit(el *etree.Element) *Unit {
	u := &Unit{ID: attr(el, "id")}
	measures := func(parent *etree.Element) []string {
		var out []string
		for _, m := range parent.ChildElements() {
			if m.Tag == "measure" {
				out = append(out, strings.TrimSpace(m.Text()))
			}
		}
		return out
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "measure":
			u.Measures = append(u.Measures, strings.TrimSpace(child.Text()))
		case "divide":
			for _, side := range child.ChildElements() {
				switch side.Tag {
				case "unitNumerator":
					u.Numerator = measures(side)
				case "unitDenominator":
					u.Denominator = measures(side)
				}
			}
		}
	}
	return u
}
