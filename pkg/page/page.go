// Package page holds the party page as an in-memory DOM document.
//
// A Page is the display surface of party.Renderer. Its search form is only
// rendered: submitted terms reach the controller through the form post.
package page

import (
	"bytes"
	_ "embed"
	"io"
	"strings"
	"sync"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed index.html
var indexHTML string

const (
	InputSelector     = "#search-term"
	ContainerSelector = "#gif-container"
	ImageSelector     = ContainerSelector + " > img"

	ImageAlt = "Giphy GIF"
)

type Page struct {
	mu  sync.RWMutex
	doc *goquery.Document
}

func New() (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(indexHTML))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if doc.Find(ContainerSelector).Length() != 1 {
		return nil, errors.Errorf("page template must have exactly one '%s' element", ContainerSelector)
	}

	return &Page{doc: doc}, nil
}

// AppendImage adds an image bound to the given url at the end of the gif container.
// The url is not validated.
func (p *Page) AppendImage(url string) {
	img := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Img.String(),
		DataAtom: atom.Img,
		Attr: []html.Attribute{
			{Key: "src", Val: url},
			{Key: "alt", Val: ImageAlt},
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.doc.Find(ContainerSelector).AppendNodes(img)
}

// Clear removes every child of the gif container.
func (p *Page) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doc.Find(ContainerSelector).Empty()
}

// Images returns the source of every displayed image, in insertion order.
func (p *Page) Images() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.doc.Find(ImageSelector).Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("src", "")
	})
}

// Render writes the whole document as HTML.
func (p *Page) Render(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, n := range p.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func (p *Page) HTML() (string, error) {
	var buff bytes.Buffer
	if err := p.Render(&buff); err != nil {
		return "", errors.WithStack(err)
	}

	return buff.String(), nil
}

// Markdown converts the displayed images to markdown.
func (p *Page) Markdown() (string, error) {
	p.mu.RLock()
	container, err := goquery.OuterHtml(p.doc.Find(ContainerSelector))
	p.mu.RUnlock()

	if err != nil {
		return "", errors.WithStack(err)
	}

	markdown, err := htmltomarkdown.ConvertString(container)
	if err != nil {
		return "", errors.Wrap(err, "could not convert page to markdown")
	}

	return markdown, nil
}
