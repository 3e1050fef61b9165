package domain

import "context"

// Page is the inspection handle for one rendered or snapshotted page. The
// engine never locates or renders elements itself; every lookup goes through
// this port and may suspend while the provider resolves it.
type Page interface {
	// Location identifies the page (file path or URL) for reporting
	Location() string

	// Query returns the elements matching a selector, in document order.
	// A selector matching nothing returns an empty slice, not an error.
	Query(ctx context.Context, selector string) ([]Element, error)

	// ActiveElement returns the currently focused element, or nil when
	// nothing holds focus
	ActiveElement(ctx context.Context) (Element, error)

	// PressKey simulates a key press at page level (e.g. "Tab")
	PressKey(ctx context.Context, key string) error
}

// Element is an opaque handle to one matched element
type Element interface {
	// Tag returns the element's tag name, lower-cased
	Tag() string

	// Text returns the element's visible text content, whitespace-collapsed
	Text(ctx context.Context) (string, error)

	// Attribute returns an attribute value and whether it is present
	Attribute(ctx context.Context, name string) (string, bool, error)

	// Style returns the element's effective value for a style property,
	// reflecting forced focus when the element has been focused
	Style(ctx context.Context, property string) (string, error)

	// Box returns the element's declared bounding geometry; zero when the
	// provider cannot determine it
	Box(ctx context.Context) (Box, error)

	// Focus forces focus onto the element
	Focus(ctx context.Context) error

	// Query returns descendant elements matching a selector
	Query(ctx context.Context, selector string) ([]Element, error)
}

// Box is an element's declared bounding geometry in CSS pixels
type Box struct {
	Width  float64
	Height float64
}

// PerformanceProvider supplies the runtime performance score. The engine only
// reads this value; how it is measured is the provider's business.
type PerformanceProvider interface {
	Score(ctx context.Context) (float64, error)
}
