// Package auth implements credential exchange against the SchoolWave
// authentication endpoint and the identity/token types it yields.
package auth

// Identity is the authenticated user's profile plus the onboarding
// completion flag. Optional fields are pointers so partial updates can
// distinguish "absent" from "cleared".
type Identity struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Profile    *string `json:"profile"`  // profile image URL
	CustomID   *string `json:"customId"` // user-chosen handle
	SchoolID   *string `json:"schoolId"`
	Registered bool    `json:"registered"`
}

// IdentityPatch is a partial identity update. Nil fields are left
// untouched when the patch is merged into an existing record.
type IdentityPatch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Profile  *string `json:"profile,omitempty"`
	CustomID *string `json:"customId,omitempty"`
	SchoolID *string `json:"schoolId,omitempty"`
}

// Merge applies the patch onto a copy of the identity, field-wise.
// Unspecified fields are preserved.
func (p IdentityPatch) Merge(id Identity) Identity {
	if p.Name != nil {
		id.Name = *p.Name
	}
	if p.Phone != nil {
		id.Phone = *p.Phone
	}
	if p.Profile != nil {
		id.Profile = p.Profile
	}
	if p.CustomID != nil {
		id.CustomID = p.CustomID
	}
	if p.SchoolID != nil {
		id.SchoolID = p.SchoolID
	}
	return id
}

// TokenBundle is the opaque session credential issued at login.
// ExpiresIn is relative to issuance; the session layer converts it to an
// absolute expiry because the bundle carries no issuance timestamp.
type TokenBundle struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// LoginResult is the credential endpoint's success payload.
type LoginResult struct {
	Identity Identity    `json:"user"`
	Token    TokenBundle `json:"token"`
}
