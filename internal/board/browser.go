package board

import (
	"io"

	"github.com/pkg/browser"
)

type Opener interface {
	Open(target string) error
}

// BrowserOpener opens the board in the desktop's default browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(target string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(target)
}
