package render

// RenderOptions describe per-request data renderers can use to customise
// their output without touching the widget tree.
type RenderOptions struct {
	// Title is used for the page title when the renderer produces a full
	// document.
	Title string
	// Fragment asks for the widget markup alone, without the page shell.
	Fragment bool
	// CSSVars are emitted as custom properties on :root. Theme tokens land
	// here.
	CSSVars map[string]string
	// Stylesheets and Scripts are URLs linked from the page head and body.
	Stylesheets []string
	Scripts     []string
	// Unsafe skips sanitising the widget markup.
	Unsafe bool
}

// HasAssets reports whether the page needs any stylesheet or script tag.
func (o RenderOptions) HasAssets() bool {
	return len(o.Stylesheets) > 0 || len(o.Scripts) > 0
}
