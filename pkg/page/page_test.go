package page

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

func TestPageImages(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 0, len(p.Images()); e != g {
		t.Fatalf("images: expected %d, got %d", e, g)
	}

	p.AppendImage("https://media.giphy.com/a.gif")
	p.AppendImage("https://media.giphy.com/b.gif")
	p.AppendImage("https://media.giphy.com/a.gif")

	images := p.Images()
	expected := []string{
		"https://media.giphy.com/a.gif",
		"https://media.giphy.com/b.gif",
		"https://media.giphy.com/a.gif",
	}

	if e, g := len(expected), len(images); e != g {
		t.Fatalf("images: expected %d, got %d", e, g)
	}

	for i := range expected {
		if e, g := expected[i], images[i]; e != g {
			t.Errorf("images[%d]: expected %q, got %q", i, e, g)
		}
	}

	p.Clear()

	if e, g := 0, len(p.Images()); e != g {
		t.Errorf("images after clear: expected %d, got %d", e, g)
	}
}

func TestPageRenderEscapesURL(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	p.AppendImage(`https://example.com/"><script>alert(1)</script>`)

	rendered, err := p.HTML()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if strings.Contains(rendered, "<script>") {
		t.Errorf("rendered page contains an unescaped script tag:\n%s", rendered)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	imgs := doc.Find(ImageSelector)
	if e, g := 1, imgs.Length(); e != g {
		t.Fatalf("images: expected %d, got %d", e, g)
	}

	if e, g := ImageAlt, imgs.AttrOr("alt", ""); e != g {
		t.Errorf("alt: expected %q, got %q", e, g)
	}
}

func TestPageMarkdown(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	p.AppendImage("https://media.giphy.com/a.gif")
	p.AppendImage("https://media.giphy.com/b.gif")

	markdown, err := p.Markdown()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	for _, url := range []string{"https://media.giphy.com/a.gif", "https://media.giphy.com/b.gif"} {
		if !strings.Contains(markdown, "!["+ImageAlt+"]("+url+")") {
			t.Errorf("markdown does not reference %s:\n%s", url, markdown)
		}
	}

	if strings.Contains(markdown, "Remove Images") {
		t.Errorf("markdown should only contain the gif container:\n%s", markdown)
	}
}
