package snapshot

import (
	"strings"

	"golang.org/x/net/html"
)

// styleRule is one parsed CSS rule from an inline <style> element
type styleRule struct {
	Selectors []simpleSelector
	Props     map[string]string
}

// parseStyleSheets walks the document and parses every <style> element into a
// flat rule list in document order. Later rules win on conflict, which is
// close enough to the cascade for snapshot purposes.
func parseStyleSheets(doc *html.Node) []styleRule {
	var rules []styleRule
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "style" {
			rules = append(rules, parseCSS(textContent(n))...)
		}
	})
	return rules
}

// parseCSS parses a stylesheet into rules. Only flat rules are understood;
// at-rules (media queries, keyframes) are skipped wholesale.
func parseCSS(css string) []styleRule {
	css = stripComments(css)

	var rules []styleRule
	for len(css) > 0 {
		open := strings.IndexByte(css, '{')
		if open < 0 {
			break
		}
		selectorText := strings.TrimSpace(css[:open])
		css = css[open+1:]

		if strings.HasPrefix(selectorText, "@") {
			// Skip the at-rule block, including nested braces
			depth := 1
			i := 0
			for i < len(css) && depth > 0 {
				switch css[i] {
				case '{':
					depth++
				case '}':
					depth--
				}
				i++
			}
			css = css[i:]
			continue
		}

		closeIdx := strings.IndexByte(css, '}')
		if closeIdx < 0 {
			break
		}
		body := css[:closeIdx]
		css = css[closeIdx+1:]

		props := parseDeclarations(body)
		if len(props) == 0 {
			continue
		}
		rules = append(rules, styleRule{
			Selectors: parseSelectorList(selectorText),
			Props:     props,
		})
	}
	return rules
}

// parseDeclarations parses "prop: value; prop: value" into a map
func parseDeclarations(body string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(body, ";") {
		colon := strings.IndexByte(decl, ':')
		if colon < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(decl[:colon]))
		value := strings.TrimSpace(decl[colon+1:])
		if name != "" && value != "" {
			props[name] = value
		}
	}
	return props
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}
