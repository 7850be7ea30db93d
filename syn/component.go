package syn

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Component returns a templ.Component that renders the elements of doc.
func Component(doc *Document) templ.Component {
	return Elements(doc.Elements)
}

// Elements returns a templ.Component that renders els in order.
func Elements(els []Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, el := range els {
			if _, err := io.WriteString(w, el.HTML()); err != nil {
				return err
			}
		}
		return nil
	})
}
