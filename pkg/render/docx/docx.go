// Package docx renders plain text into a Word document.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/papercomputeco/resumini/pkg/render"
)

const (
	titlePlaceholder = "RESUMINI_TITLE"
	bodyPlaceholder  = "RESUMINI_BODY"
)

// skeleton is the smallest package Word opens: content types, the package
// relationships and a document with a title and a body paragraph.
var skeleton = map[string]string{
	"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
	"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
	"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t>` + titlePlaceholder + `</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">` + bodyPlaceholder + `</w:t></w:r></w:p>` +
		`</w:body></w:document>`,
}

// skeletonOrder keeps the archive deterministic.
var skeletonOrder = []string{
	"[Content_Types].xml",
	"_rels/.rels",
	"word/_rels/document.xml.rels",
	"word/document.xml",
}

type Config struct {
	// Title is the heading written above the body. Empty leaves it blank.
	Title string
}

// Renderer fills the skeleton document with text.
type Renderer struct {
	title  string
	logger *slog.Logger
}

func New(c Config, logger *slog.Logger) *Renderer {
	return &Renderer{title: c.Title, logger: logger}
}

// WithTitle returns a copy of r that writes title as the heading.
func (r *Renderer) WithTitle(title string) render.Renderer {
	return &Renderer{title: title, logger: r.logger}
}

// Render writes text into a .docx file. Each line of text becomes a line
// break in the body paragraph.
func (r *Renderer) Render(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := buildSkeleton()
	if err != nil {
		return nil, fmt.Errorf("%w: building docx skeleton: %v", render.ErrRenderFailure, err)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(base), int64(len(base)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening docx skeleton: %v", render.ErrRenderFailure, err)
	}
	defer doc.Close()

	editable := doc.Editable()
	if err := editable.Replace(titlePlaceholder, r.title, 1); err != nil {
		return nil, fmt.Errorf("%w: writing title: %v", render.ErrRenderFailure, err)
	}
	// The library turns CRLF into <w:br/>.
	if err := editable.Replace(bodyPlaceholder, crlf(text), 1); err != nil {
		return nil, fmt.Errorf("%w: writing body: %v", render.ErrRenderFailure, err)
	}

	var out bytes.Buffer
	if err := editable.Write(&out); err != nil {
		return nil, fmt.Errorf("%w: writing docx: %v", render.ErrRenderFailure, err)
	}

	r.logger.Debug("rendered docx", "bytes", out.Len(), "title", r.title)
	return out.Bytes(), nil
}

func crlf(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", "\r\n")
}

func buildSkeleton() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range skeletonOrder {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(skeleton[name])); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ render.Renderer = (*Renderer)(nil)

var _ render.Titled = (*Renderer)(nil)
