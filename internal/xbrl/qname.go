package xbrl

import (
	"strings"

	"github.com/beevik/etree"
)

// Namespaces the engine recognizes.
const (
	NSInstance = "http://www.xbrl.org/2003/instance"
	NSLinkbase = "http://www.xbrl.org/2003/linkbase"
	NSXLink    = "http://www.w3.org/1999/xlink"
	NSSchema   = "http://www.w3.org/2001/XMLSchema"
	NSXSI      = "http://www.w3.org/2001/XMLSchema-instance"
	NSXML      = "http://www.w3.org/XML/1998/namespace"
)

// QName is a namespace-qualified name. Prefix is informational and not part of identity.
type QName struct {
	Space  string
	Local  string
	Prefix string
}

// String renders prefix:local, or local when there is no prefix.
func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// Clark renders {namespace}local.
func (q QName) Clark() string {
	return "{" + q.Space + "}" + q.Local
}

func (q QName) key() QName {
	return QName{Space: q.Space, Local: q.Local}
}

// lookupNamespace resolves prefix against the in-scope declarations of el.
func lookupNamespace(el *etree.Element, prefix string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if prefix == "" {
				if a.Space == "" && a.Key == "xmlns" {
					return a.Value
				}
				continue
			}
			if a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	if prefix == "xml" {
		return NSXML
	}
	return ""
}

func elementName(el *etree.Element) QName {
	return QName{Space: lookupNamespace(el, el.Space), Local: el.Tag, Prefix: el.Space}
}

// resolveQName resolves a prefixed value such as "xbrli:monetaryItemType" in el's scope.
func resolveQName(el *etree.Element, value string) QName {
	value = strings.TrimSpace(value)
	if value == "" {
		return QName{}
	}
	prefix, local, ok := strings.Cut(value, ":")
	if !ok {
		return QName{Space: lookupNamespace(el, ""), Local: value}
	}
	return QName{Space: lookupNamespace(el, prefix), Local: local, Prefix: prefix}
}

// attr returns the value of the unprefixed attribute key.
func attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

// attrNS returns the value of attribute key in namespace ns, whatever its prefix.
func attrNS(el *etree.Element, ns, key string) string {
	for _, a := range el.Attr {
		if a.Key != key || a.Space == "" || a.Space == "xmlns" {
			continue
		}
		if lookupNamespace(el, a.Space) == ns {
			return a.Value
		}
	}
	return ""
}

func xlink(el *etree.Element, key string) string {
	return attrNS(el, NSXLink, key)
}

// lang returns the xml:lang in scope for el.
func lang(el *etree.Element) string {
	for e := el; e != nil; e = e.Parent() {
		if v := attrNS(e, NSXML, "lang"); v != "" {
			return v
		}
	}
	return ""
}
