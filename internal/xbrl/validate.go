package xbrl

import "fmt"

// validateFacts runs the instance checks that need the whole model.
func validateFacts(m *Model) {
	for _, f := range m.facts {
		ctx, ok := m.contexts[f.ContextRef]
		if !ok {
			m.report(SeverityError, CodeContextMissing, m.systemID,
				fmt.Sprintf("fact %s refers to undefined context %q", f.Name, f.ContextRef))
		}

		if f.UnitRef != "" {
			if _, ok := m.units[f.UnitRef]; !ok {
				m.report(SeverityError, CodeUnitUndefined, m.systemID,
					fmt.Sprintf("fact %s refers to undefined unit %q", f.Name, f.UnitRef))
			}
		}

		c := f.Concept
		if c == nil {
			continue
		}
		if c.Numeric() && f.UnitRef == "" {
			m.report(SeverityError, CodeUnitMissing, m.systemID,
				fmt.Sprintf("numeric fact %s has no unitRef", f.Name))
		}
		if f.Nil && !c.Nillable {
			m.report(SeverityError, CodeNilNotAllowed, m.systemID,
				fmt.Sprintf("fact %s is nil but its concept is not nillable", f.Name))
		}
		if ok && c.PeriodType != "" {
			instant := ctx.Period.IsInstant()
			if (c.PeriodType == "instant") != instant {
				m.report(SeverityError, CodePeriodType, m.systemID,
					fmt.Sprintf("fact %s has a %s concept but context %q does not match", f.Name, c.PeriodType, ctx.ID))
			}
		}
	}
}
