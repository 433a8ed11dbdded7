// Package authflow implements the cross-window OAuth login handshake:
// opening a centered provider window, polling it for the returned
// authorization code, and deciding where to send the user afterwards.
package authflow

import (
	"fmt"

	"golang.org/x/oauth2"
)

// Provider identifies an external OAuth identity provider.
type Provider string

const (
	ProviderKakao  Provider = "kakao"
	ProviderGoogle Provider = "google"

	// ProviderID is the discriminator for the phone/password login
	// path; it never opens a window.
	ProviderID Provider = "id"
)

// ErrUnknownProvider indicates a provider outside the supported set
var ErrUnknownProvider = fmt.Errorf("unknown oauth provider")

const (
	kakaoAuthURL  = "https://kauth.kakao.com/oauth/authorize"
	googleAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
)

// ProviderConfig holds the public OAuth settings for one provider.
type ProviderConfig struct {
	ClientID    string
	RedirectURL string
}

// authCodeURL builds the provider's authorize URL. Kakao uses its default
// scope set; Google requires the scopes to be spelled out.
func authCodeURL(p Provider, cfg ProviderConfig, state string) (string, error) {
	switch p {
	case ProviderKakao:
		oc := &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Endpoint:    oauth2.Endpoint{AuthURL: kakaoAuthURL},
		}
		return oc.AuthCodeURL(state), nil
	case ProviderGoogle:
		oc := &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Endpoint:    oauth2.Endpoint{AuthURL: googleAuthURL},
			Scopes:      []string{"openid", "profile", "email"},
		}
		return oc.AuthCodeURL(state), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
}
