package lastpass

import (
	"strings"

	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// ClassifyAuthError wraps a login error as *vault.AuthError so the caller
// knows which credential to ask for again. The upstream client reports
// authentication failures as plain text, so classification matches on the
// message. Anything unrecognized keeps AuthFailureOther and is not worth
// re-prompting for.
func ClassifyAuthError(err error) error {
	if err == nil {
		return nil
	}
	return classify(err)
}

func classify(err error) *vault.AuthError {
	msg := strings.ToLower(err.Error())
	kind := vault.AuthFailureOther
	switch {
	case containsAny(msg, "unknown email", "unknown login", "unknown username", "user not found"):
		kind = vault.AuthFailureUnknownUsername
	case containsAny(msg, "invalid password", "incorrect password", "wrong password"):
		kind = vault.AuthFailureInvalidPassword
	case containsAny(msg, "google authenticator", "multifactor", "out-of-band", "one-time", "otp", "yubikey"):
		kind = vault.AuthFailureInvalidOTP
	}
	return &vault.AuthError{Kind: kind, Err: err}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
