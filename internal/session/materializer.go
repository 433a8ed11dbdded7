package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/auth"
)

// KeyMe is the store key for the current session.
const KeyMe = "/auth/me"

// Session is the materialized login state shared by every consumer of
// the store. A new login replaces it wholesale; it is never mutated in
// place.
type Session struct {
	Identity    auth.Identity
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the access token has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// TokenSetter receives the access token of a freshly materialized
// session. The API client implements it.
type TokenSetter interface {
	SetToken(token string)
}

// Materializer writes login results into the shared store and keeps the
// transport's token in step with them.
type Materializer struct {
	store  *Store
	tokens TokenSetter
	logger *zap.Logger
	now    func() time.Time

	// updateMu serializes read-merge-write cycles so updates apply in
	// call order.
	updateMu sync.Mutex
}

// NewMaterializer creates a materializer over the store. tokens may be
// nil when no transport needs the access token; logger may be nil.
func NewMaterializer(store *Store, tokens TokenSetter, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		store:  store,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Materialize commits a login result: the relative expiresIn becomes an
// absolute expiry, the session replaces whatever the store held, and
// the refreshed identity is returned synchronously so the post-login
// decision needs no second round trip.
func (m *Materializer) Materialize(ctx context.Context, res *auth.LoginResult) (*auth.Identity, error) {
	sess := &Session{
		Identity:    res.Identity,
		AccessToken: res.Token.AccessToken,
		ExpiresAt:   m.now().Add(time.Duration(res.Token.ExpiresIn) * time.Second),
	}

	if m.tokens != nil {
		m.tokens.SetToken(sess.AccessToken)
	}
	if _, err := m.store.Mutate(ctx, KeyMe, sess, false); err != nil {
		return nil, fmt.Errorf("committing session: %w", err)
	}

	m.logger.Info("session materialized",
		zap.String("userId", sess.Identity.UserID),
		zap.Bool("registered", sess.Identity.Registered),
		zap.Time("expiresAt", sess.ExpiresAt),
	)
	id := sess.Identity
	return &id, nil
}

// Update merges a partial identity patch into the current session.
// Profile edits elsewhere in the app go through this path, so a patch
// must never drop fields it does not mention. Updates apply in call
// order; racing disjoint patches resolve last-write-wins per field.
func (m *Materializer) Update(ctx context.Context, patch auth.IdentityPatch) (*auth.Identity, error) {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	current, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}

	merged := *current
	merged.Identity = patch.Merge(current.Identity)
	if _, err := m.store.Mutate(ctx, KeyMe, &merged, false); err != nil {
		return nil, fmt.Errorf("committing session update: %w", err)
	}

	id := merged.Identity
	return &id, nil
}

// Current returns the materialized session, fetching it if the store is
// cold.
func (m *Materializer) Current(ctx context.Context) (*Session, error) {
	v, err := m.store.Get(ctx, KeyMe)
	if err != nil {
		return nil, err
	}
	sess, ok := v.(*Session)
	if !ok || sess == nil {
		return nil, fmt.Errorf("no session materialized")
	}
	return sess, nil
}

// Clear drops the session from the store, e.g. on logout.
func (m *Materializer) Clear() {
	m.store.Invalidate(KeyMe)
	if setter, ok := m.tokens.(interface{ ClearToken() }); ok {
		setter.ClearToken()
	}
}
