// Package markdown renders post bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var (
	engine     goldmark.Markdown
	engineOnce sync.Once
)

// The goldmark instance is immutable after construction and safe to share.
func getEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engine = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		)
	})
	return engine
}

// Render writes the HTML for src to w. Raw HTML in src is not passed through.
func Render(w io.Writer, src string) error {
	return getEngine().Convert([]byte(src), w)
}

// Markdown returns a templ.Component that renders src as HTML.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := Render(&buf, src); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}
