package party

import "github.com/bornholm/gifparty/pkg/gif"

// Surface is where GIF images are displayed.
type Surface interface {
	AppendImage(url string)
	Clear()
}

type Renderer struct {
	surface Surface
}

// Display appends the result's image to the surface. Absent results are ignored.
func (r *Renderer) Display(result gif.Result) {
	url, ok := result.URL()
	if !ok {
		return
	}

	r.surface.AppendImage(url)
}

// ClearAll removes every displayed image.
func (r *Renderer) ClearAll() {
	r.surface.Clear()
}

func NewRenderer(surface Surface) *Renderer {
	return &Renderer{
		surface: surface,
	}
}

var _ Display = &Renderer{}
