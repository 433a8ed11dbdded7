package auth

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/api"
	"github.com/schoolwave/schoolwave-go/internal/authflow"
	"github.com/schoolwave/schoolwave-go/internal/validation"
)

const loginPath = "/auth/login"

// Exchanger submits credentials to the authentication endpoint. Both
// entry points share one output shape; failures come back as tagged
// api errors and are meant to be rendered, not rethrown.
type Exchanger struct {
	client   *api.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewExchanger creates an exchanger over the API client. Logger may be nil.
func NewExchanger(client *api.Client, logger *zap.Logger) *Exchanger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exchanger{
		client:   client,
		validate: validator.New(),
		logger:   logger,
	}
}

type oauthLoginRequest struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
}

type passwordLoginRequest struct {
	Provider string `json:"provider"`
	Phone    string `json:"phone" validate:"required,numeric"`
	Password string `json:"password" validate:"required"`
}

// ExchangeCode trades a one-time authorization code for a login result.
// The code is consumed whether or not the call succeeds; retries need a
// fresh popup round.
func (e *Exchanger) ExchangeCode(ctx context.Context, provider authflow.Provider, code string) (*LoginResult, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is empty")
	}

	var result LoginResult
	req := oauthLoginRequest{Provider: string(provider), Code: code}
	if err := e.client.Post(ctx, loginPath, req, &result); err != nil {
		e.logger.Info("oauth login rejected",
			zap.String("provider", string(provider)),
			zap.String("kind", string(api.KindOf(err))),
		)
		return nil, err
	}

	e.logger.Info("oauth login succeeded", zap.String("provider", string(provider)))
	return &result, nil
}

// ExchangePassword trades a phone/password pair for a login result.
// The phone is normalized to bare digits before submission.
func (e *Exchanger) ExchangePassword(ctx context.Context, phone, password string) (*LoginResult, error) {
	digits := validation.NormalizePhone(phone)
	if err := validation.ValidatePhone(digits); err != nil {
		return nil, err
	}

	req := passwordLoginRequest{
		Provider: string(authflow.ProviderID),
		Phone:    digits,
		Password: password,
	}
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validating login input: %w", err)
	}

	var result LoginResult
	if err := e.client.Post(ctx, loginPath, req, &result); err != nil {
		e.logger.Info("password login rejected",
			zap.String("kind", string(api.KindOf(err))),
		)
		return nil, err
	}
	return &result, nil
}
