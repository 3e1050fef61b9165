// Package snapshot implements the domain inspection port on top of static
// HTML files. A page is parsed once; queries, style lookups, focus simulation
// and Tab traversal all run against the parsed tree, so audits over snapshots
// are fully deterministic.
package snapshot

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/uxscan/uxscan/domain"
)

// focusableSelector matches the elements Tab traversal visits
const focusableSelector = "a[href], button, input, select, textarea, [tabindex]"

// Page is a parsed HTML snapshot implementing domain.Page
type Page struct {
	path  string
	doc   *html.Node
	rules []styleRule

	mu      sync.Mutex
	focused *html.Node
}

// Parse builds a page from raw snapshot bytes
func Parse(path string, content []byte) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}
	return &Page{
		path:  path,
		doc:   doc,
		rules: parseStyleSheets(doc),
	}, nil
}

// Location returns the snapshot file path
func (p *Page) Location() string {
	return p.path
}

// Query returns the elements matching the selector in document order
func (p *Page) Query(ctx context.Context, selector string) ([]domain.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.queryFrom(p.doc, selector), nil
}

// ActiveElement returns the currently focused element, or nil
func (p *Page) ActiveElement(ctx context.Context) (domain.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focused == nil {
		return nil, nil
	}
	return &element{page: p, node: p.focused}, nil
}

// PressKey simulates a page-level key press. Only Tab is understood: it moves
// focus to the next focusable element in document order, wrapping from nothing
// to the first one.
func (p *Page) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.EqualFold(key, "Tab") {
		return nil
	}

	focusables := p.collectNodes(p.doc, parseSelectorList(focusableSelector))
	if len(focusables) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := focusables[0]
	for i, n := range focusables {
		if n == p.focused && i+1 < len(focusables) {
			next = focusables[i+1]
			break
		}
	}
	p.focused = next
	return nil
}

func (p *Page) queryFrom(root *html.Node, selector string) []domain.Element {
	selectors := parseSelectorList(selector)
	nodes := p.collectNodes(root, selectors)
	elements := make([]domain.Element, len(nodes))
	for i, n := range nodes {
		elements[i] = &element{page: p, node: n}
	}
	return elements
}

func (p *Page) collectNodes(root *html.Node, selectors []simpleSelector) []*html.Node {
	var nodes []*html.Node
	walk(root, func(n *html.Node) {
		if matchesAny(n, selectors) {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

func (p *Page) setFocus(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focused = n
}

func (p *Page) isFocused(n *html.Node) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focused == n
}

// element implements domain.Element for one node of the snapshot tree
type element struct {
	page *Page
	node *html.Node
}

// Tag returns the lower-cased tag name
func (e *element) Tag() string {
	return e.node.Data
}

// Text returns the whitespace-collapsed text content
func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(textContent(e.node)), " "), nil
}

// Attribute returns an attribute value and whether it is present
func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	value, ok := lookupAttr(e.node, name)
	return value, ok, nil
}

// Style returns the element's effective value for a style property. Stylesheet
// rules apply in document order, inline styles win, and :focus rules apply
// only while the element holds focus.
func (e *element) Style(ctx context.Context, property string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	property = strings.ToLower(property)
	focused := e.page.isFocused(e.node)

	value := ""
	for _, rule := range e.page.rules {
		for _, sel := range rule.Selectors {
			if sel.Focus && !focused {
				continue
			}
			if !sel.matches(e.node) {
				continue
			}
			if v, ok := rule.Props[property]; ok {
				value = v
			}
		}
	}

	if inline, ok := lookupAttr(e.node, "style"); ok {
		if v, ok := parseDeclarations(inline)[property]; ok {
			value = v
		}
	}
	return value, nil
}

// Box returns the declared bounding geometry, parsed from pixel widths and
// heights in effective styles. Zero when nothing is declared.
func (e *element) Box(ctx context.Context) (domain.Box, error) {
	var box domain.Box
	width, err := e.Style(ctx, "width")
	if err != nil {
		return box, err
	}
	height, err := e.Style(ctx, "height")
	if err != nil {
		return box, err
	}
	box.Width = parsePixels(width)
	box.Height = parsePixels(height)
	return box, nil
}

// Focus forces focus onto the element
func (e *element) Focus(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.page.setFocus(e.node)
	return nil
}

// Query returns descendant elements matching the selector
func (e *element) Query(ctx context.Context, selector string) ([]domain.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var elements []domain.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		elements = append(elements, e.page.queryFrom(c, selector)...)
	}
	return elements, nil
}

func parsePixels(value string) float64 {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, "px") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
