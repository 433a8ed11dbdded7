package authflow

// Well-known destinations for the post-login decision.
const (
	RouteHome      = "/"
	RouteAgreement = "/auth/agreement"
)

// NextRoute decides where a freshly materialized session goes.
// Unregistered users are always sent to the agreement flow; registration
// is an onboarding gate and outranks any requested destination.
func NextRoute(registered bool, redirectTo string) string {
	if !registered {
		return RouteAgreement
	}
	if redirectTo != "" {
		return redirectTo
	}
	return RouteHome
}

// Navigator performs the actual navigation. The web client swaps pages;
// the CLI prints the destination.
type Navigator interface {
	Navigate(to string)
}
