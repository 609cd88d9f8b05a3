package redirect

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// BrowserNavigator opens destinations with the operating system's default
// browser.
type BrowserNavigator struct {
	// Out receives a line naming the destination before it is opened.
	Out io.Writer
}

func (n BrowserNavigator) Navigate(url string) error {
	if n.Out != nil {
		fmt.Fprintf(n.Out, "Opening %s\n", url)
	}
	return browser.OpenURL(url)
}
