package xbrl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Validation codes reported by discovery and instance checks.
const (
	CodeUnresolvable       = "xbrl:documentUnresolvable"
	CodeUnparsable         = "xbrl:documentUnparsable"
	CodeUnknownDocument    = "xbrl:unknownDocumentType"
	CodeSchemaRefMissing   = "xbrl:schemaRefMissing"
	CodeConceptNotDeclared = "xbrl:conceptNotDeclared"
	CodeContextMissing     = "xbrl.4.6.1:itemContextRef"
	CodeUnitMissing        = "xbrl.4.6.2:numericUnit"
	CodeUnitUndefined      = "xbrl.4.6.2:unitRef"
	CodePeriodType         = "xbrl.4.7.2:periodType"
	CodeNilNotAllowed      = "xbrl:nilNotAllowed"
	CodeLocatorUnresolved  = "xbrl:locatorTarget"
)

type pendingLabel struct {
	target string
	label  Label
}

// loader discovers the DTS of one instance. It is single use.
type loader struct {
	ctx      context.Context
	resolver Resolver
	logger   *zap.Logger
	model    *Model
	visited  map[string]bool
	pending  []pendingLabel
}

func newLoader(ctx context.Context, resolver Resolver, logger *zap.Logger, model *Model) *loader {
	return &loader{
		ctx:      ctx,
		resolver: resolver,
		logger:   logger,
		model:    model,
		visited:  map[string]bool{model.systemID: true},
	}
}

// discover loads the referenced document unless it was already seen.
// Only context cancellation is returned; everything else becomes a validation message.
func (l *loader) discover(req ResolveRequest) error {
	if err := l.ctx.Err(); err != nil {
		return err
	}

	systemID, err := l.resolver.SystemID(req)
	if err != nil {
		l.model.report(SeverityError, CodeUnresolvable, req.BaseSystemID,
			fmt.Sprintf("%s %q could not be resolved: %v", req.Kind, req.Location, err))
		return nil
	}
	if l.visited[systemID] {
		return nil
	}
	l.visited[systemID] = true

	doc, err := l.read(systemID)
	if err != nil {
		code := CodeUnparsable
		if errors.Is(err, errOpen) {
			code = CodeUnresolvable
		}
		l.model.report(SeverityError, code, req.BaseSystemID,
			fmt.Sprintf("%s %q: %v", req.Kind, req.Location, err))
		return nil
	}

	root := doc.Root()
	l.model.documents = append(l.model.documents, systemID)
	l.logger.Debug("DTS document loaded",
		zap.String("system_id", systemID),
		zap.Stringer("kind", req.Kind),
	)

	switch root.Tag {
	case "schema":
		return l.schema(root, systemID)
	case "linkbase":
		return l.linkbase(root, systemID)
	default:
		l.model.report(SeverityWarning, CodeUnknownDocument, systemID,
			fmt.Sprintf("document root %s is neither a schema nor a linkbase", root.FullTag()))
		return nil
	}
}

var errOpen = errors.New("open failed")

// read parses a document. Close errors are reported only when parsing succeeded.
func (l *loader) read(systemID string) (doc *etree.Document, err error) {
	rc, err := l.resolver.Open(systemID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errOpen, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			doc, err = nil, fmt.Errorf("close %s: %w", systemID, cerr)
		}
	}()

	doc = etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", systemID, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse %s: no root element", systemID)
	}
	return doc, nil
}

func (l *loader) schema(root *etree.Element, systemID string) error {
	tns := attr(root, "targetNamespace")
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "import", "include", "redefine":
			loc := attr(child, "schemaLocation")
			if loc == "" {
				continue
			}
			kind := ResolveImport
			if child.Tag != "import" {
				kind = ResolveInclude
			}
			if err := l.discover(ResolveRequest{BaseSystemID: systemID, Location: loc, Kind: kind}); err != nil {
				return err
			}
		case "element":
			l.concept(child, tns, systemID)
		case "annotation":
			for _, info := range child.ChildElements() {
				if info.Tag != "appinfo" {
					continue
				}
				for _, ref := range info.ChildElements() {
					if ref.Tag != "linkbaseRef" {
						continue
					}
					if err := l.linkbaseRef(ref, systemID); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (l *loader) linkbaseRef(ref *etree.Element, systemID string) error {
	href := xlink(ref, "href")
	if href == "" {
		return nil
	}
	return l.discover(ResolveRequest{BaseSystemID: systemID, Location: href, Kind: ResolveLinkbase})
}

func (l *loader) concept(el *etree.Element, tns, systemID string) {
	name := attr(el, "name")
	if name == "" {
		return
	}
	c := &Concept{
		Name:              QName{Space: tns, Local: name},
		ID:                attr(el, "id"),
		Type:              resolveQName(el, attr(el, "type")),
		SubstitutionGroup: resolveQName(el, attr(el, "substitutionGroup")),
		PeriodType:        attrNS(el, NSInstance, "periodType"),
		Balance:           attrNS(el, NSInstance, "balance"),
		Abstract:          attr(el, "abstract") == "true",
		Nillable:          attr(el, "nillable") == "true",
	}
	l.model.concepts[c.Name] = c
	if c.ID != "" {
		l.model.conceptIDs[systemID+"#"+c.ID] = c
	}
}

func (l *loader) linkbase(root *etree.Element, systemID string) error {
	for _, link := range root.ChildElements() {
		if link.Tag != "labelLink" {
			continue
		}
		if err := l.labelLink(link, systemID); err != nil {
			return err
		}
	}
	return nil
}

type arc struct{ from, to string }

func (l *loader) labelLink(link *etree.Element, systemID string) error {
	locs := make(map[string][]string)
	resources := make(map[string][]Label)
	var arcs []arc

	for _, el := range link.ChildElements() {
		switch el.Tag {
		case "loc":
			href := xlink(el, "href")
			if href == "" {
				continue
			}
			target, err := l.locatorTarget(systemID, href)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				l.model.report(SeverityWarning, CodeLocatorUnresolved, systemID, err.Error())
				continue
			}
			label := xlink(el, "label")
			locs[label] = append(locs[label], target)
		case "label":
			role := xlink(el, "role")
			if role == "" {
				role = RoleLabel
			}
			label := xlink(el, "label")
			resources[label] = append(resources[label], Label{
				Role: role,
				Lang: lang(el),
				Text: strings.TrimSpace(el.Text()),
			})
		case "labelArc":
			arcs = append(arcs, arc{from: xlink(el, "from"), to: xlink(el, "to")})
		}
	}

	for _, a := range arcs {
		for _, target := range locs[a.from] {
			for _, lab := range resources[a.to] {
				l.pending = append(l.pending, pendingLabel{target: target, label: lab})
			}
		}
	}
	return nil
}

// locatorTarget resolves a loc href to systemID#fragment and makes sure the
// referenced schema is part of the DTS.
func (l *loader) locatorTarget(base, href string) (string, error) {
	loc, frag, _ := strings.Cut(href, "#")
	req := ResolveRequest{BaseSystemID: base, Location: loc, Kind: ResolveLocator}
	systemID, err := l.resolver.SystemID(req)
	if err != nil {
		return "", fmt.Errorf("locator %q: %w", href, err)
	}
	if err := l.discover(req); err != nil {
		return "", err
	}
	return systemID + "#" + frag, nil
}

// attachLabels links collected label resources to their concepts.
func (l *loader) attachLabels() {
	for _, p := range l.pending {
		c, ok := l.model.conceptIDs[p.target]
		if !ok {
			continue
		}
		c.AddLabel(p.label)
	}
	l.pending = nil
}
