package handlers

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in replies is not enabled, so goldmark escapes it.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts an assistant reply to HTML. On failure the reply is
// shown as escaped text.
func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
