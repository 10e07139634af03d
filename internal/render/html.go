package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dyluth/bored/pkg/bored"
)

// HTMLRenderer turns notice markdown into sanitized HTML.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer returns a renderer that keeps hyperlinks of every kind a
// notice may hold and drops raw HTML.
func NewHTMLRenderer() *HTMLRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)

	p := bluemonday.UGCPolicy()
	p.AllowURLSchemes("mailto", "http", "https", "bored", "app", "ant")

	return &HTMLRenderer{md: md, policy: p}
}

// Notice renders the content of one notice.
func (r *HTMLRenderer) Notice(n bored.Notice) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(n.Content()), &buf); err != nil {
		return "", fmt.Errorf("failed to render notice markdown: %w", err)
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String())), nil
}

// Render writes the visible notices of b as positioned divs, measured in
// character cells, in drawing order. Only notice bodies come from users and
// they are sanitized by Notice.
func (r *HTMLRenderer) Render(w io.Writer, b *bored.Bored) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="bored" data-name="%s" style="width: %dch; height: %dem">`,
		html.EscapeString(b.Name()), b.Dimensions().X, b.Dimensions().Y)
	sb.WriteString("\n")

	for z, i := range b.Occlusion().Visible() {
		n, err := b.Notice(i)
		if err != nil {
			return err
		}
		body, err := r.Notice(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, `<div class="notice" style="left: %dch; top: %dem; width: %dch; height: %dem; z-index: %d">%s</div>`,
			n.TopLeft().X, n.TopLeft().Y, n.Dimensions().X, n.Dimensions().Y, z, body)
		sb.WriteString("\n")
	}
	sb.WriteString("</div>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
