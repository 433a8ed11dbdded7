// Package login orchestrates the full login handshake: open the
// provider window, poll it for the authorization code, exchange the
// code (or a phone/password pair) for a session, materialize the
// session, and route the user to their next destination.
package login

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/api"
	"github.com/schoolwave/schoolwave-go/internal/auth"
	"github.com/schoolwave/schoolwave-go/internal/authflow"
	"github.com/schoolwave/schoolwave-go/internal/notify"
	"github.com/schoolwave/schoolwave-go/internal/platform"
)

// Messages surfaced through the toast surface. Wrong credentials and
// unknown failures get distinct texts; abandonment gets none.
const (
	msgLoginSuccess       = "로그인되었습니다"
	msgInvalidCredentials = "전화번호 또는 비밀번호가 올바르지 않습니다"
	msgUnknownError       = "알 수 없는 오류가 발생했습니다"
)

// Exchanger is the credential exchange dependency of the flow.
type Exchanger interface {
	ExchangeCode(ctx context.Context, provider authflow.Provider, code string) (*auth.LoginResult, error)
	ExchangePassword(ctx context.Context, phone, password string) (*auth.LoginResult, error)
}

// Materializer is the session commit dependency of the flow.
type Materializer interface {
	Materialize(ctx context.Context, res *auth.LoginResult) (*auth.Identity, error)
}

// Flow runs login handshakes. One Flow serves any number of sequential
// login rounds; each round owns its own poll.
type Flow struct {
	launcher     *authflow.Launcher
	exchanger    Exchanger
	materializer Materializer
	navigator    authflow.Navigator
	notifier     notify.Notifier
	logger       *zap.Logger
	pollInterval time.Duration
}

// Option configures the flow.
type Option func(*Flow)

// WithPollInterval overrides the window inspection cadence.
func WithPollInterval(d time.Duration) Option {
	return func(f *Flow) { f.pollInterval = d }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// NewFlow wires a login flow from its parts.
func NewFlow(launcher *authflow.Launcher, exchanger Exchanger, materializer Materializer, navigator authflow.Navigator, notifier notify.Notifier, opts ...Option) *Flow {
	f := &Flow{
		launcher:     launcher,
		exchanger:    exchanger,
		materializer: materializer,
		navigator:    navigator,
		notifier:     notifier,
		logger:       zap.NewNop(),
		pollInterval: authflow.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// LoginWithProvider runs one OAuth round. Abandonment (the user closing
// the window) returns nil with no toast; a blocked popup and exchange
// failures surface through the notifier and come back as errors for
// callers that want to disable a spinner.
func (f *Flow) LoginWithProvider(ctx context.Context, provider authflow.Provider, oauthState string, display platform.Display, redirectTo string) error {
	win, err := f.launcher.Open(provider, oauthState, display)
	if err != nil {
		if errors.Is(err, authflow.ErrPopupBlocked) {
			f.notifier.Error(msgUnknownError)
		}
		return err
	}

	poll := authflow.StartCodePoll(win, authflow.WithPollInterval(f.pollInterval))
	defer poll.Cancel()

	code, err := poll.Wait(ctx)
	if err != nil {
		if errors.Is(err, authflow.ErrAbandoned) {
			// User closed the window; expected, silent.
			f.logger.Debug("login abandoned", zap.String("provider", string(provider)))
			return nil
		}
		return err
	}

	res, err := f.exchanger.ExchangeCode(ctx, provider, code)
	if err != nil {
		f.notifyFailure(err)
		return err
	}
	return f.complete(ctx, res, redirectTo)
}

// LoginWithPassword runs one password round.
func (f *Flow) LoginWithPassword(ctx context.Context, phone, password, redirectTo string) error {
	res, err := f.exchanger.ExchangePassword(ctx, phone, password)
	if err != nil {
		f.notifyFailure(err)
		return err
	}
	return f.complete(ctx, res, redirectTo)
}

// complete materializes the session and makes the one-shot routing
// decision. Registration outranks the requested destination.
func (f *Flow) complete(ctx context.Context, res *auth.LoginResult, redirectTo string) error {
	id, err := f.materializer.Materialize(ctx, res)
	if err != nil {
		f.notifier.Error(msgUnknownError)
		return err
	}

	f.notifier.Success(msgLoginSuccess)
	f.navigator.Navigate(authflow.NextRoute(id.Registered, redirectTo))
	return nil
}

func (f *Flow) notifyFailure(err error) {
	switch api.KindOf(err) {
	case api.ErrorInvalidCredentials:
		f.notifier.Error(msgInvalidCredentials)
	default:
		f.notifier.Error(msgUnknownError)
	}
}
