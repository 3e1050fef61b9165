package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/internal/rulebook"
)

// patternOutcome is what one pattern check sequence produces before it is
// wrapped into a report
type patternOutcome struct {
	score       float64
	implemented bool
	issues      []string
}

// patternCheck runs one pattern's check sequence against a page
type patternCheck func(ctx context.Context, page domain.Page) (patternOutcome, error)

// patternOrder is the deterministic order patterns are listed and audited in
var patternOrder = []string{
	"Navigation",
	"Forms",
	"Accessibility",
	"Headings",
	"Landmarks",
	"Media",
	"Viewport",
}

// PatternAuditorImpl implements the PatternAuditor interface. Each pattern is
// a registry entry evaluated independently of the others.
type PatternAuditorImpl struct {
	rulebook       *rulebook.Rulebook
	session        *domain.Session
	registry       map[string]patternCheck
	maxConcurrency int
}

// NewPatternAuditor creates a pattern auditor appending to the session
func NewPatternAuditor(rb *rulebook.Rulebook, session *domain.Session) *PatternAuditorImpl {
	a := &PatternAuditorImpl{
		rulebook:       rb,
		session:        session,
		maxConcurrency: runtime.NumCPU(),
	}
	a.registry = map[string]patternCheck{
		"Navigation":    a.checkNavigation,
		"Forms":         a.checkForms,
		"Accessibility": a.checkAccessibility,
		"Headings":      a.checkHeadings,
		"Landmarks":     a.checkLandmarks,
		"Media":         a.checkMedia,
		"Viewport":      a.checkViewport,
	}
	return a
}

// AuditPattern runs the named pattern's check sequence against the page and
// appends exactly one report to the session. Unknown patterns are a
// configuration error, never an empty report.
func (a *PatternAuditorImpl) AuditPattern(ctx context.Context, pattern string, page domain.Page) (*domain.PatternComplianceReport, error) {
	check, ok := a.registry[pattern]
	if !ok {
		return nil, domain.NewUnknownPatternError(pattern)
	}

	outcome, err := check(ctx, page)
	if err != nil {
		return nil, domain.NewAuditError(fmt.Sprintf("pattern audit for %s failed", pattern), err)
	}

	report := domain.NewPatternComplianceReport(
		pattern,
		outcome.implemented,
		outcome.score,
		outcome.issues,
		a.rulebook.ReferenceFor(pattern),
	)
	a.session.AddPatternReport(report)
	return &report, nil
}

// KnownPatterns returns the registered pattern names in audit order
func (a *PatternAuditorImpl) KnownPatterns() []string {
	names := make([]string, 0, len(patternOrder))
	for _, name := range patternOrder {
		if _, ok := a.registry[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// checkNavigation verifies breadcrumb structure and keyboard traversal.
// Three fixed checks; the score drops by a third per failed check.
func (a *PatternAuditorImpl) checkNavigation(ctx context.Context, page domain.Page) (patternOutcome, error) {
	const totalChecks = 3
	var issues []string

	breadcrumbs, err := page.Query(ctx, a.rulebook.Navigation.BreadcrumbSelector)
	if err != nil {
		return patternOutcome{}, err
	}

	if len(breadcrumbs) == 0 {
		issues = append(issues, "Missing breadcrumb navigation")
		issues = append(issues, "Breadcrumb missing current location marker")
	} else {
		current, err := breadcrumbs[0].Query(ctx, a.rulebook.Navigation.CurrentSelector)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Inspection failed for current location marker: %v", err))
		} else if len(current) == 0 {
			issues = append(issues, "Breadcrumb missing current location marker")
		}
	}

	if err := page.PressKey(ctx, "Tab"); err != nil {
		issues = append(issues, fmt.Sprintf("Keyboard traversal failed: %v", err))
	} else {
		active, err := page.ActiveElement(ctx)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Keyboard traversal failed: %v", err))
		} else if active == nil {
			issues = append(issues, "Tab key produced no focused element")
		}
	}

	return patternOutcome{
		score:       (1 - float64(len(issues))/totalChecks) * 100,
		implemented: len(issues) == 0,
		issues:      issues,
	}, nil
}

// formGroupResult carries one form group's checks back for ordered reassembly
type formGroupResult struct {
	valid  bool
	issues []string
}

// checkForms verifies every discovered form group has a label and an input,
// and that required groups mark their input as required. The score is the
// ratio of valid groups; required-marker gaps are issues but do not reduce
// the valid count.
func (a *PatternAuditorImpl) checkForms(ctx context.Context, page domain.Page) (patternOutcome, error) {
	rules := a.rulebook.Forms

	groups, err := page.Query(ctx, rules.GroupSelector)
	if err != nil {
		return patternOutcome{}, err
	}

	results := make([]formGroupResult, len(groups))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)
	for i, group := range groups {
		g.Go(func() error {
			results[i] = a.checkFormGroup(gCtx, group, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return patternOutcome{}, err
	}

	valid := 0
	var issues []string
	for _, r := range results {
		if r.valid {
			valid++
		}
		issues = append(issues, r.issues...)
	}

	total := len(groups)
	return patternOutcome{
		score:       ratioScore(valid, total),
		implemented: total > 0 && valid == total,
		issues:      issues,
	}, nil
}

func (a *PatternAuditorImpl) checkFormGroup(ctx context.Context, group domain.Element, index int) formGroupResult {
	rules := a.rulebook.Forms
	var r formGroupResult

	labels, err := group.Query(ctx, rules.LabelSelector)
	if err != nil {
		r.issues = append(r.issues, fmt.Sprintf("Inspection failed for form group %d: %v", index+1, err))
		return r
	}
	inputs, err := group.Query(ctx, rules.InputSelector)
	if err != nil {
		r.issues = append(r.issues, fmt.Sprintf("Inspection failed for form group %d: %v", index+1, err))
		return r
	}

	hasLabel := len(labels) > 0
	hasInput := len(inputs) > 0
	r.valid = hasLabel && hasInput
	if !hasLabel {
		r.issues = append(r.issues, fmt.Sprintf("Form group %d missing label", index+1))
	}
	if !hasInput {
		r.issues = append(r.issues, fmt.Sprintf("Form group %d missing input", index+1))
	}

	if hasInput && a.isRequiredGroup(ctx, group) {
		marked := false
		for _, attr := range rules.RequiredInputAttrs {
			if _, ok, err := inputs[0].Attribute(ctx, attr); err == nil && ok {
				marked = true
				break
			}
		}
		if !marked {
			r.issues = append(r.issues, fmt.Sprintf("Required form group %d missing required marker on input", index+1))
		}
	}
	return r
}

func (a *PatternAuditorImpl) isRequiredGroup(ctx context.Context, group domain.Element) bool {
	rules := a.rulebook.Forms
	if class, ok, err := group.Attribute(ctx, "class"); err == nil && ok {
		for _, c := range strings.Fields(class) {
			if containsString(rules.RequiredMarkerClasses, c) {
				return true
			}
		}
	}
	for _, attr := range rules.RequiredMarkerAttrs {
		if _, ok, err := group.Attribute(ctx, attr); err == nil && ok {
			return true
		}
	}
	return false
}

// focusResult carries one focusable element's indicator check
type focusResult struct {
	hasIndicator bool
	issue        string
}

// checkAccessibility runs the contrast heuristic and the focus-indicator
// sweep. The score is the focus-indicator ratio; contrast findings are issues
// only and never change the implemented verdict. The focus sweep mutates the
// page's single focus slot, so it runs sequentially: a concurrent Focus would
// steal focus between another element's Focus and its style reads.
func (a *PatternAuditorImpl) checkAccessibility(ctx context.Context, page domain.Page) (patternOutcome, error) {
	rules := a.rulebook.Accessibility
	var issues []string

	// Contrast heuristic: only token-set membership, never real ratios
	textElements, err := page.Query(ctx, rules.TextSelector)
	if err != nil {
		return patternOutcome{}, err
	}
	for _, el := range textElements {
		fg, err := el.Style(ctx, "color")
		if err != nil {
			issues = append(issues, fmt.Sprintf("Inspection failed for %s color: %v", el.Tag(), err))
			continue
		}
		bg, err := el.Style(ctx, "background-color")
		if err != nil {
			issues = append(issues, fmt.Sprintf("Inspection failed for %s background: %v", el.Tag(), err))
			continue
		}
		if fg == "" || bg == "" {
			continue
		}
		sameDark := a.rulebook.IsDarkToken(fg) && a.rulebook.IsDarkToken(bg)
		sameLight := a.rulebook.IsLightToken(fg) && a.rulebook.IsLightToken(bg)
		if sameDark || sameLight {
			issues = append(issues, fmt.Sprintf("Potential low contrast on <%s>: %s on %s", el.Tag(), fg, bg))
		}
	}

	// Focus indicator sweep over the page's exclusive focus state
	focusables, err := page.Query(ctx, rules.FocusableSelector)
	if err != nil {
		return patternOutcome{}, err
	}

	withIndicator := 0
	for _, el := range focusables {
		r := checkFocusIndicator(ctx, el)
		if r.hasIndicator {
			withIndicator++
		} else if r.issue != "" {
			issues = append(issues, r.issue)
		}
	}

	total := len(focusables)
	return patternOutcome{
		score:       ratioScore(withIndicator, total),
		implemented: withIndicator == total,
		issues:      issues,
	}, nil
}

func checkFocusIndicator(ctx context.Context, el domain.Element) focusResult {
	if err := el.Focus(ctx); err != nil {
		return focusResult{issue: fmt.Sprintf("Could not focus <%s>: %v", el.Tag(), err)}
	}
	outline, err := el.Style(ctx, "outline")
	if err != nil {
		return focusResult{issue: fmt.Sprintf("Inspection failed for <%s> outline: %v", el.Tag(), err)}
	}
	shadow, err := el.Style(ctx, "box-shadow")
	if err != nil {
		return focusResult{issue: fmt.Sprintf("Inspection failed for <%s> box-shadow: %v", el.Tag(), err)}
	}
	if visibleIndicator(outline) || visibleIndicator(shadow) {
		return focusResult{hasIndicator: true}
	}
	return focusResult{issue: fmt.Sprintf("Focusable <%s> has no visible focus indicator", el.Tag())}
}

// ratioScore converts a pass count into a score. An empty population means
// there was nothing to check, which scores full marks rather than zero.
func ratioScore(passed, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(passed) / float64(total) * 100
}

// visibleIndicator reports whether an outline or box-shadow value renders
// something visible
func visibleIndicator(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", "none", "0", "initial", "unset":
		return false
	}
	return true
}

// checkHeadings verifies there is exactly one h1 and no skipped levels.
// Two fixed checks; extra findings floor the score at 0 via clamping.
func (a *PatternAuditorImpl) checkHeadings(ctx context.Context, page domain.Page) (patternOutcome, error) {
	const totalChecks = 2
	var issues []string

	counts := make([]int, 7)
	for level := 1; level <= 6; level++ {
		headings, err := page.Query(ctx, fmt.Sprintf("h%d", level))
		if err != nil {
			return patternOutcome{}, err
		}
		counts[level] = len(headings)
	}

	switch {
	case counts[1] == 0:
		issues = append(issues, "Page has no h1 heading")
	case counts[1] > 1:
		issues = append(issues, fmt.Sprintf("Page has %d h1 headings, expected exactly one", counts[1]))
	}

	for level := 2; level <= 6; level++ {
		if counts[level] > 0 && counts[level-1] == 0 {
			issues = append(issues, fmt.Sprintf("Heading level h%d used without h%d", level, level-1))
		}
	}

	score := (1 - float64(len(issues))/totalChecks) * 100
	return patternOutcome{
		score:       domain.ClampScore(score),
		implemented: len(issues) == 0,
		issues:      issues,
	}, nil
}

// checkLandmarks verifies the expected landmark regions are present
func (a *PatternAuditorImpl) checkLandmarks(ctx context.Context, page domain.Page) (patternOutcome, error) {
	present := 0
	var issues []string
	for _, landmark := range a.rulebook.Landmarks {
		elements, err := page.Query(ctx, landmark.Selector)
		if err != nil {
			return patternOutcome{}, err
		}
		if len(elements) > 0 {
			present++
		} else {
			issues = append(issues, fmt.Sprintf("Missing %s landmark", landmark.Name))
		}
	}

	total := len(a.rulebook.Landmarks)
	return patternOutcome{
		score:       ratioScore(present, total),
		implemented: present == total,
		issues:      issues,
	}, nil
}

// checkMedia verifies every image carries alternative text or is explicitly
// decorative
func (a *PatternAuditorImpl) checkMedia(ctx context.Context, page domain.Page) (patternOutcome, error) {
	images, err := page.Query(ctx, a.rulebook.Media.ImageSelector)
	if err != nil {
		return patternOutcome{}, err
	}

	withAlt := 0
	var issues []string
	for i, img := range images {
		alt, hasAlt, err := img.Attribute(ctx, "alt")
		if err != nil {
			issues = append(issues, fmt.Sprintf("Inspection failed for image %d: %v", i+1, err))
			continue
		}
		role, _, err := img.Attribute(ctx, "role")
		if err != nil {
			issues = append(issues, fmt.Sprintf("Inspection failed for image %d: %v", i+1, err))
			continue
		}
		if (hasAlt && strings.TrimSpace(alt) != "") || role == "presentation" {
			withAlt++
		} else {
			src, _, _ := img.Attribute(ctx, "src")
			issues = append(issues, fmt.Sprintf("Image missing alt text: %s", src))
		}
	}

	total := len(images)
	return patternOutcome{
		score:       ratioScore(withAlt, total),
		implemented: withAlt == total,
		issues:      issues,
	}, nil
}

// checkViewport verifies a responsive viewport meta tag exists and no element
// declares a fixed width beyond the mobile breakpoint, whether inline or from
// a stylesheet rule
func (a *PatternAuditorImpl) checkViewport(ctx context.Context, page domain.Page) (patternOutcome, error) {
	const totalChecks = 2
	var issues []string

	metas, err := page.Query(ctx, "meta[name=viewport]")
	if err != nil {
		return patternOutcome{}, err
	}
	responsive := false
	for _, meta := range metas {
		content, _, err := meta.Attribute(ctx, "content")
		if err != nil {
			continue
		}
		if strings.Contains(content, "width=device-width") {
			responsive = true
			break
		}
	}
	if !responsive {
		issues = append(issues, "Missing responsive viewport meta tag")
	}

	breakpoint := a.rulebook.Viewport.MobileBreakpoint
	elements, err := page.Query(ctx, "*")
	if err != nil {
		return patternOutcome{}, err
	}
	for _, el := range elements {
		box, err := el.Box(ctx)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Inspection failed for <%s> geometry: %v", el.Tag(), err))
			continue
		}
		if box.Width > breakpoint {
			issues = append(issues, fmt.Sprintf("Fixed width %.0fpx on <%s> exceeds mobile breakpoint %.0fpx", box.Width, el.Tag(), breakpoint))
		}
	}

	// Issues can outnumber the fixed checks; the score floors at 0
	failed := min(len(issues), totalChecks)
	return patternOutcome{
		score:       (1 - float64(failed)/totalChecks) * 100,
		implemented: len(issues) == 0,
		issues:      issues,
	}, nil
}
