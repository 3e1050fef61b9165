// Package rulebook holds the accepted-value tables and structural thresholds
// for one design-system release. The tables are pure data: auditors look
// values up, nothing here mutates or inspects pages. Swapping the design
// system release means swapping the rulebook, not the auditors.
package rulebook

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rulebook is the versioned rule data for a design-system release
type Rulebook struct {
	// Version identifies the design-system release these rules describe
	Version string `json:"version" yaml:"version"`

	// DocsBaseURL is the base for pattern reference links; the pattern's
	// lower-cased name is appended to it
	DocsBaseURL string `json:"docs_base_url" yaml:"docs_base_url"`

	// Components maps component type names to their rule data
	Components map[string]ComponentRules `json:"components" yaml:"components"`

	// Navigation, Forms, Accessibility and the structural checks
	Navigation    NavigationRules    `json:"navigation" yaml:"navigation"`
	Forms         FormsRules         `json:"forms" yaml:"forms"`
	Accessibility AccessibilityRules `json:"accessibility" yaml:"accessibility"`
	Landmarks     []LandmarkRule     `json:"landmarks" yaml:"landmarks"`
	Media         MediaRules         `json:"media" yaml:"media"`
	Viewport      ViewportRules      `json:"viewport" yaml:"viewport"`

	// Thresholds are the minimum scores a compliant interface must reach
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
}

// ComponentRules is the rule data for one component type. Only the fields a
// type's rules consult need to be set.
type ComponentRules struct {
	// Selector matches elements of this component type on a page
	Selector string `json:"selector" yaml:"selector"`

	// Intent/size acceptance tables
	IntentAttribute string   `json:"intent_attribute,omitempty" yaml:"intent_attribute,omitempty"`
	AcceptedIntents []string `json:"accepted_intents,omitempty" yaml:"accepted_intents,omitempty"`
	SizeAttribute   string   `json:"size_attribute,omitempty" yaml:"size_attribute,omitempty"`
	AcceptedSizes   []string `json:"accepted_sizes,omitempty" yaml:"accepted_sizes,omitempty"`

	// Composite sub-part selectors (form groups, cards)
	LabelSelector  string `json:"label_selector,omitempty" yaml:"label_selector,omitempty"`
	InputSelector  string `json:"input_selector,omitempty" yaml:"input_selector,omitempty"`
	ErrorSelector  string `json:"error_selector,omitempty" yaml:"error_selector,omitempty"`
	HelperSelector string `json:"helper_selector,omitempty" yaml:"helper_selector,omitempty"`
	MediaSelector  string `json:"media_selector,omitempty" yaml:"media_selector,omitempty"`
}

// NavigationRules locates the breadcrumb structure
type NavigationRules struct {
	BreadcrumbSelector string `json:"breadcrumb_selector" yaml:"breadcrumb_selector"`

	// CurrentSelector is matched inside the breadcrumb container
	CurrentSelector string `json:"current_selector" yaml:"current_selector"`
}

// FormsRules locates form groups and their parts
type FormsRules struct {
	GroupSelector string `json:"group_selector" yaml:"group_selector"`
	LabelSelector string `json:"label_selector" yaml:"label_selector"`
	InputSelector string `json:"input_selector" yaml:"input_selector"`

	// RequiredMarkerClasses/Attrs mark a group as required
	RequiredMarkerClasses []string `json:"required_marker_classes" yaml:"required_marker_classes"`
	RequiredMarkerAttrs   []string `json:"required_marker_attrs" yaml:"required_marker_attrs"`

	// RequiredInputAttrs must appear on the input of a required group
	RequiredInputAttrs []string `json:"required_input_attrs" yaml:"required_input_attrs"`
}

// AccessibilityRules drives the contrast heuristic and focus-indicator check
type AccessibilityRules struct {
	// TextSelector matches the elements whose color pairs are examined
	TextSelector string `json:"text_selector" yaml:"text_selector"`

	// FocusableSelector matches the elements that must show a focus indicator
	FocusableSelector string `json:"focusable_selector" yaml:"focusable_selector"`

	// Known color tokens. The heuristic only compares set membership; it
	// never computes real contrast ratios.
	DarkTokens  []string `json:"dark_tokens" yaml:"dark_tokens"`
	LightTokens []string `json:"light_tokens" yaml:"light_tokens"`
}

// LandmarkRule names one expected landmark region and how to find it
type LandmarkRule struct {
	Name     string `json:"name" yaml:"name"`
	Selector string `json:"selector" yaml:"selector"`
}

// MediaRules locates images for the alt-text check
type MediaRules struct {
	ImageSelector string `json:"image_selector" yaml:"image_selector"`
}

// ViewportRules holds the responsive-layout thresholds
type ViewportRules struct {
	// MobileBreakpoint is the widest fixed pixel width an element may
	// declare before it breaks small viewports
	MobileBreakpoint float64 `json:"mobile_breakpoint" yaml:"mobile_breakpoint"`
}

// Thresholds are the minimum scores enforced by the check gate
type Thresholds struct {
	MinimumOverall       float64 `json:"minimum_overall" yaml:"minimum_overall"`
	MinimumAccessibility float64 `json:"minimum_accessibility" yaml:"minimum_accessibility"`
}

// Default returns the built-in rulebook
func Default() *Rulebook {
	return &Rulebook{
		Version:     "2025.2",
		DocsBaseURL: "https://design.uxscan.dev/patterns/",
		Components: map[string]ComponentRules{
			"Button": {
				Selector:        "button, [role=button]",
				IntentAttribute: "data-intent",
				AcceptedIntents: []string{"primary", "secondary", "success", "warning", "danger"},
				SizeAttribute:   "data-size",
				AcceptedSizes:   []string{"small", "medium", "large"},
			},
			"Card": {
				Selector:      ".card, [data-component=card]",
				MediaSelector: "img",
			},
			"FormGroup": {
				Selector:       ".form-group, fieldset, [data-component=form-group]",
				LabelSelector:  "label, [data-label]",
				InputSelector:  "input, select, textarea",
				ErrorSelector:  ".has-error, [data-state=error], [aria-invalid=true]",
				HelperSelector: ".helper-text, .error-message, [data-helper]",
			},
		},
		Navigation: NavigationRules{
			BreadcrumbSelector: "nav[aria-label=breadcrumb], .breadcrumbs, [data-component=breadcrumbs]",
			CurrentSelector:    "[aria-current=page], .current",
		},
		Forms: FormsRules{
			GroupSelector:         ".form-group, fieldset, [data-component=form-group]",
			LabelSelector:         "label, [data-label]",
			InputSelector:         "input, select, textarea",
			RequiredMarkerClasses: []string{"required"},
			RequiredMarkerAttrs:   []string{"data-required"},
			RequiredInputAttrs:    []string{"required", "aria-required"},
		},
		Accessibility: AccessibilityRules{
			TextSelector:      "p, span, h1, h2, h3, h4, h5, h6, a, button, li, label",
			FocusableSelector: "a[href], button, input, select, textarea, [tabindex]",
			DarkTokens: []string{
				"#000", "#000000", "#111827", "#1f2937", "#212529", "#333", "#333333",
				"black", "rgb(0, 0, 0)", "var(--color-ink)", "var(--color-gray-900)",
			},
			LightTokens: []string{
				"#fff", "#ffffff", "#f8f9fa", "#f9fafb", "#f3f4f6", "#eee", "#e5e7eb",
				"white", "rgb(255, 255, 255)", "var(--color-paper)", "var(--color-gray-50)",
			},
		},
		Landmarks: []LandmarkRule{
			{Name: "banner", Selector: "header, [role=banner]"},
			{Name: "navigation", Selector: "nav, [role=navigation]"},
			{Name: "main", Selector: "main, [role=main]"},
			{Name: "contentinfo", Selector: "footer, [role=contentinfo]"},
		},
		Media: MediaRules{
			ImageSelector: "img",
		},
		Viewport: ViewportRules{
			MobileBreakpoint: 375,
		},
		Thresholds: Thresholds{
			MinimumOverall:       70,
			MinimumAccessibility: 80,
		},
	}
}

// LoadFromFile reads a YAML rulebook, layered over the defaults so a partial
// file only overrides what it names
func LoadFromFile(path string) (*Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rulebook %s: %w", path, err)
	}

	rb := Default()
	if err := yaml.Unmarshal(data, rb); err != nil {
		return nil, fmt.Errorf("failed to parse rulebook %s: %w", path, err)
	}

	if err := rb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rulebook %s: %w", path, err)
	}

	return rb, nil
}

// Validate checks that the rulebook is internally usable
func (rb *Rulebook) Validate() error {
	if rb.Version == "" {
		return fmt.Errorf("rulebook version must be set")
	}
	if rb.DocsBaseURL == "" {
		return fmt.Errorf("rulebook docs_base_url must be set")
	}
	if len(rb.Components) == 0 {
		return fmt.Errorf("rulebook must define at least one component type")
	}
	for name, rules := range rb.Components {
		if rules.Selector == "" {
			return fmt.Errorf("component %s has no selector", name)
		}
	}
	if rb.Viewport.MobileBreakpoint <= 0 {
		return fmt.Errorf("viewport.mobile_breakpoint must be > 0, got %v", rb.Viewport.MobileBreakpoint)
	}
	if len(rb.Landmarks) == 0 {
		return fmt.Errorf("rulebook must define at least one landmark")
	}
	return nil
}

// ReferenceFor builds the documentation URL for a pattern name
func (rb *Rulebook) ReferenceFor(pattern string) string {
	base := rb.DocsBaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.ToLower(pattern)
}

// ComponentRulesFor returns the rule data for a component type
func (rb *Rulebook) ComponentRulesFor(componentType string) (ComponentRules, bool) {
	rules, ok := rb.Components[componentType]
	return rules, ok
}

// KnownComponents returns the component type names in sorted order
func (rb *Rulebook) KnownComponents() []string {
	names := make([]string, 0, len(rb.Components))
	for name := range rb.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDarkToken reports whether a color token belongs to the known-dark set
func (rb *Rulebook) IsDarkToken(token string) bool {
	return containsFold(rb.Accessibility.DarkTokens, token)
}

// IsLightToken reports whether a color token belongs to the known-light set
func (rb *Rulebook) IsLightToken(token string) bool {
	return containsFold(rb.Accessibility.LightTokens, token)
}

func containsFold(set []string, value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	for _, s := range set {
		if strings.ToLower(s) == value {
			return true
		}
	}
	return false
}
