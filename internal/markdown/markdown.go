// Package markdown renders paste content as sanitized HTML.
package markdown

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

const extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_TABLES |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_HEADER_IDS |
	blackfriday.EXTENSION_LAX_HTML_BLOCKS

var (
	htmlRenderer     blackfriday.Renderer
	sanitationPolicy *bluemonday.Policy
)

func init() {
	htmlRenderer = blackfriday.HtmlRenderer(blackfriday.HTML_SAFELINK|
		blackfriday.HTML_NOFOLLOW_LINKS, "", "")
	sanitationPolicy = bluemonday.UGCPolicy()
	sanitationPolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
}

// Render converts source to HTML that is safe to embed in a page.
func Render(source string) template.HTML {
	md := blackfriday.Markdown([]byte(source), htmlRenderer, extensions)
	return template.HTML(sanitationPolicy.SanitizeBytes(md))
}
