package lastpass

import (
	"context"
	"fmt"

	lastpassgo "github.com/ansd/lastpass-go"

	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/schubergphilis/lastpassreportingcli/internal/logging"
	"github.com/schubergphilis/lastpassreportingcli/internal/secure"
	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// Prompt field names, also used in cancellation messages.
const (
	fieldUsername = "username"
	fieldPassword = "password"
	fieldOTP      = "MFA"
)

// Credentials are the login inputs supplied through flags or environment
// variables. Empty fields are prompted for interactively.
type Credentials struct {
	Username string

	// Password holds the master password, kept in an encrypted enclave
	// until login needs it. Nil means not supplied.
	Password *secure.Buffer

	// OTP is the one-time passcode of the account's MFA device.
	OTP string
}

// Prompter asks the user for one credential value. Implementations render
// the standard "Please type your lastpass <field>:" prompt, preceded by
// title when one is given. PromptSecret must not echo the input.
type Prompter interface {
	Prompt(field, title string) (string, error)
	PromptSecret(field, title string) (string, error)
}

// LoginFunc opens an authenticated backend session.
type LoginFunc func(ctx context.Context, username, password, otp string) (Backend, error)

// Authenticator drives the login conversation: collect missing
// credentials, attempt the login, and re-prompt for whichever credential
// the backend rejected until it succeeds or the user cancels.
type Authenticator struct {
	login   LoginFunc
	prompts Prompter
	logger  *logging.Logger
}

// NewAuthenticator returns an authenticator that logs in against LastPass
// and prompts through the given Prompter.
func NewAuthenticator(prompts Prompter, logger *logging.Logger) *Authenticator {
	if logger == nil {
		logger = logging.New(logging.LevelInfo, true)
	}
	return &Authenticator{login: dial, prompts: prompts, logger: logger}
}

func dial(ctx context.Context, username, password, otp string) (Backend, error) {
	var opts []lastpassgo.ClientOption
	if otp != "" {
		opts = append(opts, lastpassgo.WithOneTimePassword(otp))
	}
	return lastpassgo.NewClient(ctx, username, password, opts...)
}

// Login authenticates against the backend and returns a Client for the
// session. Failures the backend ties to one credential re-prompt for that
// credential; anything else is logged at debug level and aborts.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*Client, error) {
	username := creds.Username
	if username == "" {
		value, err := a.ask(fieldUsername, "", false)
		if err != nil {
			return nil, err
		}
		username = value
	}

	password := ""
	if creds.Password != nil {
		locked, err := creds.Password.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open password enclave: %w", err)
		}
		defer locked.Destroy()
		password = locked.String()
	}
	if password == "" {
		value, err := a.ask(fieldPassword, "", true)
		if err != nil {
			return nil, err
		}
		password = value
	}

	otp := creds.OTP
	if otp == "" {
		value, err := a.ask(fieldOTP, "", false)
		if err != nil {
			return nil, err
		}
		otp = value
	}

	for {
		backend, err := a.login(ctx, username, password, otp)
		if err == nil {
			return New(backend, a.logger), nil
		}

		authErr := classify(err)
		switch authErr.Kind {
		case vault.AuthFailureUnknownUsername:
			value, askErr := a.ask(fieldUsername, "Username is not correct, please try again.", false)
			if askErr != nil {
				return nil, askErr
			}
			username = value
		case vault.AuthFailureInvalidPassword:
			value, askErr := a.ask(fieldPassword, "Password is not correct, please try again.", true)
			if askErr != nil {
				return nil, askErr
			}
			password = value
		case vault.AuthFailureInvalidOTP:
			value, askErr := a.ask(fieldOTP, "MFA is not correct, please try again.", false)
			if askErr != nil {
				return nil, askErr
			}
			otp = value
		default:
			a.logger.Debug("authentication failed: %s", logging.Redact(err.Error(), []string{password}))
			return nil, lperrors.UserError{
				Message: "Unable to authenticate to backend.",
				Err:     authErr,
			}
		}
	}
}

// ask reads one credential. An empty value counts as cancellation, like
// closing the prompt.
func (a *Authenticator) ask(field, title string, masked bool) (string, error) {
	var value string
	var err error
	if masked {
		value, err = a.prompts.PromptSecret(field, title)
	} else {
		value, err = a.prompts.Prompt(field, title)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	if value == "" {
		return "", lperrors.UserError{
			Message: fmt.Sprintf("User canceled or provided an empty value for %s", field),
		}
	}
	return value, nil
}
