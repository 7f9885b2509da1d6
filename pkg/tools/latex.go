package tools

import (
	"fmt"
	"html"
	"strings"
)

// FallbackLatexShell wraps LaTeX body content that arrived without a preamble.
const FallbackLatexShell = `\documentclass[11pt]{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{geometry}
\usepackage{enumitem}
\usepackage{hyperref}
\geometry{margin=0.75in}
\pagestyle{empty}
\begin{document}
%s
\end{document}
`

// EnsureLatexDocument returns source unchanged when it declares a document
// class and otherwise places it inside FallbackLatexShell.
func EnsureLatexDocument(source string) string {
	source = strings.TrimSpace(StripCodeFence(source))
	if strings.Contains(source, `\documentclass`) {
		return source
	}
	return fmt.Sprintf(FallbackLatexShell, source)
}

// StripCodeFence removes a surrounding markdown code fence such as
// ```latex ... ``` from model output.
func StripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	if !strings.HasPrefix(clean, "```") {
		return s
	}
	clean = strings.TrimPrefix(clean, "```")
	if nl := strings.IndexByte(clean, '\n'); nl >= 0 && !strings.ContainsAny(clean[:nl], " \t") {
		// language tag
		clean = clean[nl+1:]
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// PreviewHTML builds a page embedding the PDF. A nil pdf yields a page that
// says no preview is available.
func PreviewHTML(role string, pdfBase64 *string) string {
	var b strings.Builder
	b.WriteString(`<html><body style="background:#000;color:#fff">`)
	b.WriteString("\n<h2>")
	b.WriteString(html.EscapeString(OptimizedTitle(role)))
	b.WriteString("</h2>\n")
	if pdfBase64 != nil {
		b.WriteString(`<embed src="data:application/pdf;base64,`)
		b.WriteString(*pdfBase64)
		b.WriteString(`" type="application/pdf" width="100%" height="600px">`)
	} else {
		b.WriteString("<p>PDF preview unavailable.</p>")
	}
	b.WriteString("\n</body></html>\n")
	return b.String()
}

// OptimizedTitle is the heading used for optimized documents.
func OptimizedTitle(role string) string {
	return "Optimized Resume (" + role + ")"
}
