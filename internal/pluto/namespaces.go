// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pluto

import "github.com/beevik/etree"

// Prefixes used by the elements this package emits.
const (
	prefixCore   = "core"
	prefixLnbLeg = "lnb-leg"
	prefixTr     = "tr"
)

// Namespace binds an XML prefix to its URI.
type Namespace struct {
	Prefix string
	URI    string
}

// Namespaces is the fixed prefix table declared on every document root, in
// declaration order. The URIs must match the PLUTO schema exactly.
var Namespaces = []Namespace{
	{"core", "http://www.lexisnexis.com/namespace/sslrp/core"},
	{"di", "http://www.lexisnexis.com/namespace/sslrp/di"},
	{"em", "http://www.lexisnexis.com/namespace/sslrp/em"},
	{"fm", "http://www.lexisnexis.com/namespace/sslrp/fm"},
	{"fn", "http://www.lexisnexis.com/namespace/sslrp/fn"},
	{"form", "http://www.lexisnexis.com/namespace/sslrp/form"},
	{"glph", "http://www.lexisnexis.com/namespace/sslrp/glph"},
	{"header", "http://www.lexisnexis.com/namespace/sslrp/header"},
	{"in", "http://www.lexisnexis.com/namespace/sslrp/in"},
	{"lnb-case", "http://www.lexisnexis.com/namespace/case/lnb-case"},
	{"lnb-leg", "http://www.lexisnexis.com/namespace/sslrp/lnb-leg"},
	{"lnbdig-case", "http://www.lexisnexis.com/namespace/digest/lnbdig-case"},
	{"lnci", "http://www.lexisnexis.com/namespace/common/lnci"},
	{"ls", "http://www.lexisnexis.com/namespace/sslrp/ls"},
	{"m", "http://www.w3.org/1998/Math/MathML"},
	{"nl", "http://www.lexisnexis.com/namespace/sslrp/nl"},
	{"pnfo", "http://www.lexisnexis.com/namespace/sslrp/pnfo"},
	{"ps", "http://www.lexisnexis.com/namespace/sslrp/ps"},
	{"pu", "http://www.lexisnexis.com/namespace/sslrp/pu"},
	{"se", "http://www.lexisnexis.com/namespace/sslrp/se"},
	{"su", "http://www.lexisnexis.com/namespace/sslrp/su"},
	{"tr", "http://www.lexisnexis.com/namespace/sslrp/tr"},
}

// NamespaceURI returns the URI bound to prefix, or "" when it is not in the
// table.
func NamespaceURI(prefix string) string {
	for _, ns := range Namespaces {
		if ns.Prefix == prefix {
			return ns.URI
		}
	}
	return ""
}

// newRoot creates the tr-prefixed root element carrying every xmlns binding.
func newRoot(name string) *etree.Element {
	root := etree.NewElement(prefixTr + ":" + name)
	for _, ns := range Namespaces {
		root.CreateAttr("xmlns:"+ns.Prefix, ns.URI)
	}
	return root
}

func core(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement(prefixCore + ":" + tag)
}

func leg(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement(prefixLnbLeg + ":" + tag)
}
