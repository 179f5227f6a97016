package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"datepicker/internal/docs"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	// Raw HTML stays disabled: no html.WithUnsafe().
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

type docVM struct {
	Theme  string
	Title  string
	Body   template.HTML
	Topics []string
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")
	if topic == "" {
		topic = "overview"
	}
	body, ok := docs.Get(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "docs.html", docVM{
		Theme:  themeOf(s.cfgSnapshot().Picker),
		Title:  docs.Title(topic),
		Body:   renderMarkdownHTML(body),
		Topics: docs.Topics(),
	})
}
