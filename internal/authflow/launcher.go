package authflow

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/platform"
)

// Popup dimensions match the login window the web client opens.
const (
	PopupWidth  = 500
	PopupHeight = 800
)

// ErrPopupBlocked indicates the platform refused to open the auth window.
// This is terminal; the caller informs the user and does not retry.
var ErrPopupBlocked = fmt.Errorf("auth window blocked")

// Launcher opens centered provider windows and remembers which provider
// is in progress so the rest of the handshake knows what response shape
// to expect.
type Launcher struct {
	opener    platform.Opener
	providers map[Provider]ProviderConfig
	logger    *zap.Logger

	mu      sync.Mutex
	current Provider
}

// NewLauncher creates a launcher over the given opener. Logger may be nil.
func NewLauncher(opener platform.Opener, providers map[Provider]ProviderConfig, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{
		opener:    opener,
		providers: providers,
		logger:    logger,
	}
}

// Open builds the provider's authorize URL and opens a centered
// PopupWidth×PopupHeight window on the display. A blocked popup returns
// ErrPopupBlocked.
func (l *Launcher) Open(p Provider, state string, display platform.Display) (platform.Window, error) {
	cfg, ok := l.providers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}

	authURL, err := authCodeURL(p, cfg, state)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = p
	l.mu.Unlock()

	frame := platform.CenterRect(display, PopupWidth, PopupHeight)
	win, err := l.opener.OpenAuthWindow(authURL, frame)
	if err != nil {
		return nil, fmt.Errorf("opening auth window: %w", err)
	}
	if win == nil {
		l.logger.Warn("auth window blocked", zap.String("provider", string(p)))
		return nil, ErrPopupBlocked
	}

	l.logger.Debug("auth window opened",
		zap.String("provider", string(p)),
		zap.Int("left", frame.Left),
		zap.Int("top", frame.Top),
	)
	return win, nil
}

// Current returns the provider of the most recently opened window.
func (l *Launcher) Current() Provider {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
