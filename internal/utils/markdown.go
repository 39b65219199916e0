package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// Post bodies arrive as editor HTML or markdown. Raw HTML is let through goldmark
	// and then everything is sanitized by bluemonday.
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
	policy = bluemonday.UGCPolicy()

	// Comments get inline formatting and autolinks only. Raw HTML is dropped.
	commentParser = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	commentPolicy = bluemonday.NewPolicy()
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	commentPolicy.AllowElements("p", "br", "em", "strong", "del", "code")
	commentPolicy.AllowStandardURLs()
	commentPolicy.AllowAttrs("href").OnElements("a")
	commentPolicy.RequireNoFollowOnLinks(true)
	commentPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(policy.Sanitize(source))
	}

	sanitized := policy.SanitizeBytes(buf.Bytes())
	return EnhanceHTMLContent(string(sanitized))
}

// RenderComment formats comment text. Headings, images and tables are flattened
// to their text.
func RenderComment(source string) template.HTML {
	var buf bytes.Buffer
	if err := commentParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(commentPolicy.SanitizeBytes(buf.Bytes()))
}
