// Package render defines the document renderers used by the resume tools.
package render

import "context"

// Renderer turns source text into a document. The LaTeX renderer takes a
// LaTeX document and returns PDF bytes, the DOCX renderer takes plain text and
// returns a .docx file.
type Renderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// Titled is implemented by renderers that write a heading above the body.
// WithTitle returns a renderer using title and leaves the receiver unchanged.
type Titled interface {
	Renderer
	WithTitle(title string) Renderer
}

// Func adapts a function to Renderer.
type Func func(ctx context.Context, source string) ([]byte, error)

func (f Func) Render(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}
