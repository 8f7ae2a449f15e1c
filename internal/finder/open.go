package finder

import (
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/v2/pkg/browser"
)

// Opener shows a directory to the user.
type Opener interface {
	Open(dir string) error
}

// BrowserOpener opens directories with the platform's default handler
// (xdg-open, open, or explorer), honoring $BROWSER.
type BrowserOpener struct {
	browser *browser.Browser
}

// NewBrowserOpener creates an Opener. Output from the launched program is
// written to stdout and stderr.
func NewBrowserOpener(stdout, stderr io.Writer) *BrowserOpener {
	return &BrowserOpener{browser: browser.New("", stdout, stderr)}
}

// Open launches the file browser on dir.
func (o *BrowserOpener) Open(dir string) error {
	return o.browser.Browse(fileURL(dir))
}

func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
