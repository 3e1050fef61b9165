package snapshot

import (
	"strings"

	"golang.org/x/net/html"
)

// attrCondition matches one [attr] or [attr=value] clause
type attrCondition struct {
	Name  string
	Value string
	// HasValue distinguishes [attr=value] from bare [attr]
	HasValue bool
}

// simpleSelector is one compound selector without combinators, e.g.
// "nav[aria-label=breadcrumb]", ".form-group", "[tabindex]", "button:focus".
// This is the subset the rulebook uses; descendant and child combinators are
// intentionally not supported.
type simpleSelector struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   []attrCondition
	Focus   bool
}

// parseSelectorList parses a comma-separated selector list
func parseSelectorList(s string) []simpleSelector {
	var selectors []simpleSelector
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		selectors = append(selectors, parseSimpleSelector(part))
	}
	return selectors
}

// parseSimpleSelector parses one compound selector
func parseSimpleSelector(s string) simpleSelector {
	var sel simpleSelector

	i := 0
	// Leading tag name or universal selector
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	if i > 0 {
		sel.Tag = strings.ToLower(s[:i])
	} else if i < len(s) && s[i] == '*' {
		i++
	}

	for i < len(s) {
		switch s[i] {
		case '#':
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			sel.ID = s[i+1 : j]
			i = j
		case '.':
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			sel.Classes = append(sel.Classes, s[i+1:j])
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return sel
			}
			sel.Attrs = append(sel.Attrs, parseAttrCondition(s[i+1:i+j]))
			i += j + 1
		case ':':
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			if s[i+1:j] == "focus" {
				sel.Focus = true
			}
			i = j
		default:
			i++
		}
	}

	return sel
}

func parseAttrCondition(s string) attrCondition {
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		value := strings.Trim(s[eq+1:], `"'`)
		return attrCondition{Name: strings.ToLower(strings.TrimSpace(s[:eq])), Value: value, HasValue: true}
	}
	return attrCondition{Name: strings.ToLower(strings.TrimSpace(s))}
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// matches reports whether an element node satisfies the selector, ignoring the
// :focus pseudo-class (the caller decides what focus state applies)
func (sel simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if sel.Tag != "" && sel.Tag != n.Data {
		return false
	}
	if sel.ID != "" && attrValue(n, "id") != sel.ID {
		return false
	}
	for _, class := range sel.Classes {
		if !hasClass(n, class) {
			return false
		}
	}
	for _, cond := range sel.Attrs {
		value, ok := lookupAttr(n, cond.Name)
		if !ok {
			return false
		}
		if cond.HasValue && value != cond.Value {
			return false
		}
	}
	return true
}

func matchesAny(n *html.Node, selectors []simpleSelector) bool {
	for _, sel := range selectors {
		if sel.matches(n) {
			return true
		}
	}
	return false
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, name string) string {
	value, _ := lookupAttr(n, name)
	return value
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
