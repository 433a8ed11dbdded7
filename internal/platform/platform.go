// Package platform abstracts the windowing surface the OAuth login flow
// runs against, so the handshake logic never touches a real browser.
package platform

import "errors"

var (
	// ErrCrossOrigin indicates the window location is not readable yet
	// because the window is still on a foreign origin. Pollers treat
	// this as "not yet", never as a failure.
	ErrCrossOrigin = errors.New("window location not readable: cross origin")

	// ErrWindowClosed indicates the window has been closed
	ErrWindowClosed = errors.New("window closed")
)

// Window is a live reference to a spawned auth window. Implementations
// must make Close safe to call more than once.
type Window interface {
	// Location returns the window's current URL. It returns
	// ErrCrossOrigin while the window is on a foreign origin and
	// ErrWindowClosed once the window is gone.
	Location() (string, error)

	// Closed reports whether the window has been closed, either by
	// Close or by the user.
	Closed() bool

	// Close closes the window.
	Close()
}

// Opener spawns auth windows. The real implementation launches a
// browser; tests drive the flow with a scripted fake.
type Opener interface {
	// OpenAuthWindow opens a window at url with the given frame.
	// A nil window without an error means the popup was blocked;
	// callers surface that to the user and do not retry.
	OpenAuthWindow(url string, frame Rect) (Window, error)
}

// Rect describes a window frame in screen coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Display describes the host window the popup is centered against.
type Display struct {
	ScreenX     int
	ScreenY     int
	OuterWidth  int
	OuterHeight int
}

// CenterRect computes the frame of a w×h window centered on the display.
func CenterRect(d Display, w, h int) Rect {
	return Rect{
		Left:   d.ScreenX + (d.OuterWidth-w)/2,
		Top:    d.ScreenY + (d.OuterHeight-h)/2,
		Width:  w,
		Height: h,
	}
}
