package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/api"
	"github.com/schoolwave/schoolwave-go/internal/auth"
	"github.com/schoolwave/schoolwave-go/internal/authflow"
	"github.com/schoolwave/schoolwave-go/internal/logger"
	"github.com/schoolwave/schoolwave-go/internal/login"
	"github.com/schoolwave/schoolwave-go/internal/notify"
	"github.com/schoolwave/schoolwave-go/internal/platform"
	"github.com/schoolwave/schoolwave-go/internal/session"
	"github.com/schoolwave/schoolwave-go/internal/state"
	"github.com/schoolwave/schoolwave-go/internal/webpage"
)

// Version is set by the build process
var Version = "dev"

// logNavigator is the CLI's navigation surface: it reports where the
// web client would go next.
type logNavigator struct {
	logger *zap.Logger
}

func (n *logNavigator) Navigate(to string) {
	n.logger.Info("navigating", zap.String("to", to))
}

// armingOpener registers each opened loopback window with the callback
// server before handing it to the poller.
type armingOpener struct {
	inner *platform.BrowserOpener
	srv   *callbackServer
}

func (o *armingOpener) OpenAuthWindow(url string, frame platform.Rect) (platform.Window, error) {
	win, err := o.inner.OpenAuthWindow(url, frame)
	if err != nil || win == nil {
		return win, err
	}
	if lw, ok := win.(*platform.LoopbackWindow); ok {
		o.srv.arm(lw)
	}
	return win, nil
}

func main() {
	providerFlag := flag.String("provider", "kakao", "login provider: kakao, google or id")
	phoneFlag := flag.String("phone", "", "phone number for id login")
	passwordFlag := flag.String("password", "", "password for id login")
	redirectFlag := flag.String("redirect-to", "", "destination after login")
	flag.Parse()

	var cfg Config
	if err := envconfig.Process("SCHOOLWAVE", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *providerFlag, *phoneFlag, *passwordFlag, *redirectFlag); err != nil {
		log.Fatal("login failed", zap.Error(err))
	}
}

func run(cfg Config, log *zap.Logger, providerName, phone, password, redirectTo string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional redis-backed session cache.
	var cache *session.RedisTokenCache
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis URL: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer func() { _ = redisClient.Close() }()

		cache = session.NewRedisTokenCache(redisClient)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := cache.CheckHealth(pingCtx); err != nil {
			return err
		}
	}

	navigator := &logNavigator{logger: log}
	client := api.NewClient(cfg.APIBaseURL,
		api.WithLogger(log),
		api.WithUnauthorizedHook(func() {
			navigator.Navigate("/auth/login")
		}),
	)

	store := session.New(func(ctx context.Context, key string) (interface{}, error) {
		return nil, errors.New("not logged in")
	})
	materializer := session.NewMaterializer(store, client, log)
	exchanger := auth.NewExchanger(client, log)

	pages, err := webpage.Load()
	if err != nil {
		return fmt.Errorf("loading pages: %w", err)
	}
	states := state.NewManager([]byte(cfg.StateSecret), cfg.StateExpiry)
	srv := newCallbackServer(pages, states, log)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("callback listener started", zap.String("addr", cfg.ListenAddr))
		serverErrors <- httpServer.ListenAndServe()
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutting down listener", zap.Error(err))
		}
	}()

	providers := map[authflow.Provider]authflow.ProviderConfig{}
	if cfg.KakaoClientID != "" {
		providers[authflow.ProviderKakao] = authflow.ProviderConfig{
			ClientID:    cfg.KakaoClientID,
			RedirectURL: cfg.RedirectURL,
		}
	}
	if cfg.GoogleClientID != "" {
		providers[authflow.ProviderGoogle] = authflow.ProviderConfig{
			ClientID:    cfg.GoogleClientID,
			RedirectURL: cfg.RedirectURL,
		}
	}

	opener := &armingOpener{inner: &platform.BrowserOpener{}, srv: srv}
	launcher := authflow.NewLauncher(opener, providers, log)
	flow := login.NewFlow(launcher, exchanger, materializer, navigator, notify.NewLogging(log),
		login.WithLogger(log),
		login.WithPollInterval(cfg.PollInterval),
	)

	loginErrors := make(chan error, 1)
	go func() {
		switch authflow.Provider(providerName) {
		case authflow.ProviderID:
			loginErrors <- flow.LoginWithPassword(ctx, phone, password, redirectTo)
		default:
			oauthState, err := states.Generate()
			if err != nil {
				loginErrors <- err
				return
			}
			loginErrors <- flow.LoginWithProvider(ctx, authflow.Provider(providerName), oauthState, platform.Display{}, redirectTo)
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("callback listener: %w", err)
	case <-ctx.Done():
		log.Info("interrupted")
		return nil
	case err := <-loginErrors:
		if err != nil {
			return err
		}
	}

	// Persist the session for the next run when a cache is configured.
	if cache != nil {
		sess, err := materializer.Current(ctx)
		if err == nil {
			if err := cache.Save(ctx, sess); err != nil {
				log.Warn("caching session", zap.Error(err))
			} else {
				log.Info("session cached", zap.String("userId", sess.Identity.UserID))
			}
		}
	}
	return nil
}
