package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/schubergphilis/lastpassreportingcli/internal/config"
	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/schubergphilis/lastpassreportingcli/internal/lastpass"
	"github.com/schubergphilis/lastpassreportingcli/internal/secure"
)

const fetchMessage = "Please wait while retrieving and decrypting secrets from Lastpass..."

// openVault authenticates against Lastpass and downloads the vault
// contents up front, so the spinner covers the slow fetch and decrypt
// phase instead of popping up halfway through a report.
func openVault(ctx context.Context, cfg *config.Config) (*lastpass.Client, error) {
	creds := lastpass.Credentials{Username: cfg.Username, OTP: cfg.OTP}
	if cfg.Password != "" {
		buf, err := secure.NewFromString(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to protect password: %w", err)
		}
		defer buf.Destroy()
		creds.Password = buf
	}

	auth := lastpass.NewAuthenticator(prompterFor(cfg), cfg.Logger)
	client, err := auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	spin := startSpinner(cfg)
	_, err = client.Secrets(ctx)
	stopSpinner(spin, err == nil)
	if err != nil {
		return nil, lperrors.VaultError("secret retrieval", err)
	}
	return client, nil
}

// closeVault ends the backend session. A failed logout only costs a
// warning: the session expires server side anyway.
func closeVault(client *lastpass.Client, cfg *config.Config) {
	// The command context may already be canceled at this point.
	if err := client.Logout(context.Background()); err != nil {
		cfg.Logger.Warn("failed to log out from Lastpass: %s", err)
		return
	}
	cfg.Logger.Debug("logged out from Lastpass")
}

func startSpinner(cfg *config.Config) *spinner.Spinner {
	if cfg.NonInteractive {
		return nil
	}
	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	spin.Suffix = " " + fetchMessage
	_ = spin.Color("yellow")
	spin.Start()
	return spin
}

func stopSpinner(spin *spinner.Spinner, ok bool) {
	if spin == nil {
		return
	}
	if ok {
		spin.FinalMSG = "✅ " + fetchMessage + "\n"
	}
	spin.Stop()
}
