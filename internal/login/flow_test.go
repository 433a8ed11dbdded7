package login

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/schoolwave/schoolwave-go/internal/api"
	"github.com/schoolwave/schoolwave-go/internal/auth"
	"github.com/schoolwave/schoolwave-go/internal/authflow"
	"github.com/schoolwave/schoolwave-go/internal/notify"
	"github.com/schoolwave/schoolwave-go/internal/platform"
)

type scriptedWindow struct {
	mu       sync.Mutex
	location string
	readable bool
	closed   bool
}

func (w *scriptedWindow) setLocation(loc string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
	w.readable = true
}

func (w *scriptedWindow) Location() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return "", platform.ErrWindowClosed
	}
	if !w.readable {
		return "", platform.ErrCrossOrigin
	}
	return w.location, nil
}

func (w *scriptedWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *scriptedWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

type scriptedOpener struct {
	win     *scriptedWindow
	blocked bool
}

func (o *scriptedOpener) OpenAuthWindow(url string, _ platform.Rect) (platform.Window, error) {
	if o.blocked {
		return nil, nil
	}
	return o.win, nil
}

type fakeExchanger struct {
	result    *auth.LoginResult
	err       error
	codes     []string
	passwords [][2]string
	mu        sync.Mutex
}

func (e *fakeExchanger) ExchangeCode(ctx context.Context, provider authflow.Provider, code string) (*auth.LoginResult, error) {
	e.mu.Lock()
	e.codes = append(e.codes, code)
	e.mu.Unlock()
	return e.result, e.err
}

func (e *fakeExchanger) ExchangePassword(ctx context.Context, phone, password string) (*auth.LoginResult, error) {
	e.mu.Lock()
	e.passwords = append(e.passwords, [2]string{phone, password})
	e.mu.Unlock()
	return e.result, e.err
}

type fakeMaterializer struct {
	calls int32
}

func (m *fakeMaterializer) Materialize(ctx context.Context, res *auth.LoginResult) (*auth.Identity, error) {
	atomic.AddInt32(&m.calls, 1)
	id := res.Identity
	return &id, nil
}

type recordingNavigator struct {
	mu     sync.Mutex
	visits []string
}

func (n *recordingNavigator) Navigate(to string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visits = append(n.visits, to)
}

func providers() map[authflow.Provider]authflow.ProviderConfig {
	return map[authflow.Provider]authflow.ProviderConfig{
		authflow.ProviderKakao: {ClientID: "k", RedirectURL: "https://app.example.com/auth/callback"},
	}
}

func result(registered bool) *auth.LoginResult {
	return &auth.LoginResult{
		Identity: auth.Identity{UserID: "u1", Registered: registered},
		Token:    auth.TokenBundle{AccessToken: "tok", ExpiresIn: 3600},
	}
}

func newTestFlow(opener platform.Opener, ex *fakeExchanger) (*Flow, *fakeMaterializer, *recordingNavigator, *notify.Recorder) {
	launcher := authflow.NewLauncher(opener, providers(), nil)
	mat := &fakeMaterializer{}
	nav := &recordingNavigator{}
	toasts := notify.NewRecorder()
	flow := NewFlow(launcher, ex, mat, nav, toasts, WithPollInterval(time.Millisecond))
	return flow, mat, nav, toasts
}

func TestProviderLoginHappyPath(t *testing.T) {
	win := &scriptedWindow{}
	flow, mat, nav, toasts := newTestFlow(&scriptedOpener{win: win}, &fakeExchanger{result: result(true)})

	// Redirect arrives while the flow is polling.
	go func() {
		time.Sleep(5 * time.Millisecond)
		win.setLocation("https://app.example.com/auth/callback?code=c0de&state=st")
	}()

	err := flow.LoginWithProvider(context.Background(), authflow.ProviderKakao, "st", platform.Display{}, "/board/5")
	if err != nil {
		t.Fatalf("LoginWithProvider: %v", err)
	}

	if got := atomic.LoadInt32(&mat.calls); got != 1 {
		t.Errorf("materialize calls = %d, want 1", got)
	}
	if len(nav.visits) != 1 || nav.visits[0] != "/board/5" {
		t.Errorf("visits = %v, want [/board/5]", nav.visits)
	}
	if !win.Closed() {
		t.Error("window was not closed after code extraction")
	}
	ts := toasts.Toasts()
	if len(ts) != 1 || ts[0].Level != notify.LevelSuccess {
		t.Errorf("toasts = %+v, want one success", ts)
	}
}

func TestUnregisteredUserRoutedToAgreement(t *testing.T) {
	win := &scriptedWindow{}
	flow, _, nav, _ := newTestFlow(&scriptedOpener{win: win}, &fakeExchanger{result: result(false)})

	go func() {
		time.Sleep(5 * time.Millisecond)
		win.setLocation("https://app.example.com/auth/callback?code=c0de")
	}()

	if err := flow.LoginWithProvider(context.Background(), authflow.ProviderKakao, "st", platform.Display{}, "/board/5"); err != nil {
		t.Fatalf("LoginWithProvider: %v", err)
	}
	if len(nav.visits) != 1 || nav.visits[0] != authflow.RouteAgreement {
		t.Errorf("visits = %v, want [%s]", nav.visits, authflow.RouteAgreement)
	}
}

func TestAbandonmentIsSilent(t *testing.T) {
	win := &scriptedWindow{}
	ex := &fakeExchanger{result: result(true)}
	flow, mat, nav, toasts := newTestFlow(&scriptedOpener{win: win}, ex)

	go func() {
		time.Sleep(5 * time.Millisecond)
		win.Close() // user closes the popup
	}()

	if err := flow.LoginWithProvider(context.Background(), authflow.ProviderKakao, "st", platform.Display{}, ""); err != nil {
		t.Fatalf("LoginWithProvider: %v", err)
	}

	if len(ex.codes) != 0 {
		t.Errorf("exchanger called with codes %v, want none", ex.codes)
	}
	if atomic.LoadInt32(&mat.calls) != 0 {
		t.Error("materializer called after abandonment")
	}
	if len(nav.visits) != 0 {
		t.Errorf("navigated to %v after abandonment", nav.visits)
	}
	if ts := toasts.Toasts(); len(ts) != 0 {
		t.Errorf("toasts = %+v, want none", ts)
	}
}

func TestBlockedPopupSurfacesError(t *testing.T) {
	flow, _, nav, toasts := newTestFlow(&scriptedOpener{blocked: true}, &fakeExchanger{result: result(true)})

	err := flow.LoginWithProvider(context.Background(), authflow.ProviderKakao, "st", platform.Display{}, "")
	if err == nil {
		t.Fatal("expected error for blocked popup")
	}
	if len(nav.visits) != 0 {
		t.Errorf("navigated to %v, want nothing", nav.visits)
	}
	ts := toasts.Toasts()
	if len(ts) != 1 || ts[0].Level != notify.LevelError {
		t.Errorf("toasts = %+v, want one error", ts)
	}
}

func TestPasswordLoginWrongCredentials(t *testing.T) {
	ex := &fakeExchanger{
		err: &api.Error{Kind: api.ErrorInvalidCredentials, Status: 400, Message: "wrong"},
	}
	flow, mat, nav, toasts := newTestFlow(&scriptedOpener{}, ex)

	err := flow.LoginWithPassword(context.Background(), "010-1234-5678", "nope", "")
	if err == nil {
		t.Fatal("expected error")
	}

	ts := toasts.Toasts()
	if len(ts) != 1 || ts[0].Message != msgInvalidCredentials {
		t.Errorf("toasts = %+v, want invalid credentials message", ts)
	}
	if atomic.LoadInt32(&mat.calls) != 0 {
		t.Error("materializer called on failed exchange")
	}
	if len(nav.visits) != 0 {
		t.Errorf("navigated to %v on failed exchange", nav.visits)
	}
}

func TestPasswordLoginSuccessNavigatesHome(t *testing.T) {
	flow, _, nav, _ := newTestFlow(&scriptedOpener{}, &fakeExchanger{result: result(true)})

	if err := flow.LoginWithPassword(context.Background(), "010-1234-5678", "pw", ""); err != nil {
		t.Fatalf("LoginWithPassword: %v", err)
	}
	if len(nav.visits) != 1 || nav.visits[0] != authflow.RouteHome {
		t.Errorf("visits = %v, want [%s]", nav.visits, authflow.RouteHome)
	}
}
