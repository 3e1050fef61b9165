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

// componentRule checks one rule family against one element. Findings are
// appended to f; returning an error means the inspection provider failed and
// the failure is recorded as a violation by the auditor.
type componentRule func(ctx context.Context, el domain.Element, rules rulebook.ComponentRules, f *elementFindings) error

// elementFindings accumulates one element's rule outcomes before reassembly
type elementFindings struct {
	index           int
	violations      []string
	recommendations []string
}

func (f *elementFindings) violate(message string) {
	f.violations = append(f.violations, message)
}

func (f *elementFindings) recommend(message string) {
	f.recommendations = append(f.recommendations, message)
}

// ComponentAuditorImpl implements the ComponentAuditor interface. Rules
// dispatch through a per-type registry, so adding a component type means
// registering rules, not growing a conditional.
type ComponentAuditorImpl struct {
	rulebook       *rulebook.Rulebook
	session        *domain.Session
	registry       map[string][]componentRule
	maxConcurrency int
}

// NewComponentAuditor creates a component auditor appending to the session
func NewComponentAuditor(rb *rulebook.Rulebook, session *domain.Session) *ComponentAuditorImpl {
	a := &ComponentAuditorImpl{
		rulebook:       rb,
		session:        session,
		maxConcurrency: runtime.NumCPU(),
	}
	a.registry = map[string][]componentRule{
		"Button":    {checkAccessibleName, checkIntent, checkSize},
		"Card":      {checkClickableAffordance, checkCardMedia},
		"FormGroup": {checkInputLabel, checkErrorHelperText},
	}
	return a
}

// AuditComponent evaluates the registered rules for componentType against the
// matched elements and appends exactly one report to the session. Elements
// are evaluated concurrently; findings are reassembled by element index so
// violation order is deterministic regardless of completion order.
func (a *ComponentAuditorImpl) AuditComponent(ctx context.Context, componentType string, elements []domain.Element) (*domain.ComponentUsageReport, error) {
	componentRules, ok := a.rulebook.ComponentRulesFor(componentType)
	if !ok {
		return nil, domain.NewUnknownComponentError(componentType)
	}
	rules, ok := a.registry[componentType]
	if !ok {
		return nil, domain.NewUnknownComponentError(componentType)
	}

	findings := make([]elementFindings, len(elements))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)
	for i, el := range elements {
		findings[i].index = i
		g.Go(func() error {
			f := &findings[i]
			for _, rule := range rules {
				if err := rule(gCtx, el, componentRules, f); err != nil {
					// One failed inspection never aborts the audit; the
					// failure becomes a violation for this element.
					f.violate(fmt.Sprintf("Inspection failed for element %d: %v", i+1, err))
					break
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewAuditError(fmt.Sprintf("component audit for %s cancelled", componentType), err)
	}

	var violations, recommendations []string
	for _, f := range findings {
		violations = append(violations, f.violations...)
		recommendations = append(recommendations, f.recommendations...)
	}

	report := domain.NewComponentUsageReport(componentType, len(elements), violations, recommendations)
	a.session.AddComponentReport(report)
	return &report, nil
}

// KnownComponents returns the component types the registry can audit, in
// rulebook order
func (a *ComponentAuditorImpl) KnownComponents() []string {
	var names []string
	for _, name := range a.rulebook.KnownComponents() {
		if _, ok := a.registry[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// checkAccessibleName flags icon-only controls that expose no accessible name
func checkAccessibleName(ctx context.Context, el domain.Element, _ rulebook.ComponentRules, f *elementFindings) error {
	text, err := el.Text(ctx)
	if err != nil {
		return err
	}
	if text != "" {
		return nil
	}
	label, ok, err := el.Attribute(ctx, "aria-label")
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(label) == "" {
		f.violate("Icon-only button missing aria-label")
	}
	return nil
}

// checkIntent flags declared intents outside the rulebook's accepted set
func checkIntent(ctx context.Context, el domain.Element, rules rulebook.ComponentRules, f *elementFindings) error {
	if rules.IntentAttribute == "" {
		return nil
	}
	value, ok, err := el.Attribute(ctx, rules.IntentAttribute)
	if err != nil {
		return err
	}
	if ok && !containsString(rules.AcceptedIntents, value) {
		f.violate(fmt.Sprintf("Invalid intent: %s", value))
	}
	return nil
}

// checkSize flags declared sizes outside the rulebook's accepted set
func checkSize(ctx context.Context, el domain.Element, rules rulebook.ComponentRules, f *elementFindings) error {
	if rules.SizeAttribute == "" {
		return nil
	}
	value, ok, err := el.Attribute(ctx, rules.SizeAttribute)
	if err != nil {
		return err
	}
	if ok && !containsString(rules.AcceptedSizes, value) {
		f.violate(fmt.Sprintf("Invalid size: %s", value))
	}
	return nil
}

// checkClickableAffordance flags elements that behave as clickable without
// declaring themselves interactive
func checkClickableAffordance(ctx context.Context, el domain.Element, _ rulebook.ComponentRules, f *elementFindings) error {
	_, hasHandler, err := el.Attribute(ctx, "onclick")
	if err != nil {
		return err
	}
	cursor, err := el.Style(ctx, "cursor")
	if err != nil {
		return err
	}
	if !hasHandler && cursor != "pointer" {
		return nil
	}

	role, _, err := el.Attribute(ctx, "role")
	if err != nil {
		return err
	}
	_, hasTabindex, err := el.Attribute(ctx, "tabindex")
	if err != nil {
		return err
	}
	if (role != "button" && role != "link") || !hasTabindex {
		f.violate("Clickable card not keyboard accessible")
		f.recommend("Add role=\"button\" and tabindex=\"0\" to clickable cards")
	}
	return nil
}

// checkCardMedia flags card images without alternative text
func checkCardMedia(ctx context.Context, el domain.Element, rules rulebook.ComponentRules, f *elementFindings) error {
	if rules.MediaSelector == "" {
		return nil
	}
	images, err := el.Query(ctx, rules.MediaSelector)
	if err != nil {
		return err
	}
	for _, img := range images {
		alt, hasAlt, err := img.Attribute(ctx, "alt")
		if err != nil {
			return err
		}
		role, _, err := img.Attribute(ctx, "role")
		if err != nil {
			return err
		}
		if (!hasAlt || strings.TrimSpace(alt) == "") && role != "presentation" {
			f.violate("Card image missing alt text")
			f.recommend("Describe card images with alt text or mark them role=\"presentation\"")
		}
	}
	return nil
}

// checkInputLabel flags input-bearing composites without an associated label
func checkInputLabel(ctx context.Context, el domain.Element, rules rulebook.ComponentRules, f *elementFindings) error {
	inputs, err := el.Query(ctx, rules.InputSelector)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return nil
	}
	labels, err := el.Query(ctx, rules.LabelSelector)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		f.violate("Form input missing associated label")
	}
	return nil
}

// checkErrorHelperText flags composites in an error state that present no
// accompanying helper or error text
func checkErrorHelperText(ctx context.Context, el domain.Element, rules rulebook.ComponentRules, f *elementFindings) error {
	inputs, err := el.Query(ctx, rules.InputSelector)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return nil
	}
	errored, err := el.Query(ctx, rules.ErrorSelector)
	if err != nil {
		return err
	}
	if len(errored) == 0 {
		return nil
	}
	helpers, err := el.Query(ctx, rules.HelperSelector)
	if err != nil {
		return err
	}
	if len(helpers) == 0 {
		f.violate("Error state missing helper text")
	}
	return nil
}

func containsString(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
