package platform

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// LoopbackWindow realizes the Window contract for environments without a
// scriptable popup: the authorize URL opens in the system browser, and the
// redirect lands on a local HTTP listener which resolves the window by
// calling Resolve with the full redirect URL. Until then Location reports
// ErrCrossOrigin, exactly like a popup still parked on the provider's
// domain.
type LoopbackWindow struct {
	mu       sync.Mutex
	location string
	resolved bool
	closed   bool
}

// NewLoopbackWindow returns an unresolved loopback window.
func NewLoopbackWindow() *LoopbackWindow {
	return &LoopbackWindow{}
}

// Resolve records the redirect URL the local listener received. Calling
// Resolve after the window is closed is a no-op.
func (w *LoopbackWindow) Resolve(rawURL string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.location = rawURL
	w.resolved = true
}

func (w *LoopbackWindow) Location() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return "", ErrWindowClosed
	}
	if !w.resolved {
		return "", ErrCrossOrigin
	}
	return w.location, nil
}

func (w *LoopbackWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *LoopbackWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// BrowserOpener opens authorize URLs in the system browser and hands back
// a LoopbackWindow that the redirect listener resolves.
type BrowserOpener struct {
	// Launch overrides how the URL is opened; tests set this to avoid
	// spawning a real browser.
	Launch func(url string) error
}

// OpenAuthWindow opens url in the system browser. The frame is advisory
// here since the OS owns browser geometry.
func (o *BrowserOpener) OpenAuthWindow(url string, _ Rect) (Window, error) {
	launch := o.Launch
	if launch == nil {
		launch = openInBrowser
	}
	if err := launch(url); err != nil {
		return nil, fmt.Errorf("opening browser: %w", err)
	}
	return NewLoopbackWindow(), nil
}

func openInBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
