package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/schubergphilis/lastpassreportingcli/internal/config"
	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/schubergphilis/lastpassreportingcli/internal/lastpass"
)

func prompterFor(cfg *config.Config) lastpass.Prompter {
	if cfg.NonInteractive {
		return failingPrompter{}
	}
	return newTerminalPrompter()
}

// terminalPrompter reads credentials from the terminal. Prompts go to
// stderr so report output stays clean when piped.
type terminalPrompter struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stderr,
		readSecret: readPasswordFromTerminal,
	}
}

func (p *terminalPrompter) Prompt(field, title string) (string, error) {
	p.banner(field, title)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *terminalPrompter) PromptSecret(field, title string) (string, error) {
	p.banner(field, title)
	value, err := p.readSecret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (p *terminalPrompter) banner(field, title string) {
	if title != "" {
		fmt.Fprintln(p.out, title)
	}
	fmt.Fprintf(p.out, "Please type your lastpass %s: ", field)
}

func readPasswordFromTerminal() (string, error) {
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// failingPrompter rejects every prompt, for --non-interactive runs where
// blocking on a terminal would hang a pipeline.
type failingPrompter struct{}

func (failingPrompter) Prompt(field, title string) (string, error) {
	return "", nonInteractiveError(field)
}

func (failingPrompter) PromptSecret(field, title string) (string, error) {
	return "", nonInteractiveError(field)
}

func nonInteractiveError(field string) error {
	return lperrors.UserError{
		Message:    fmt.Sprintf("The lastpass %s is required but prompting is disabled", field),
		Suggestion: "Provide it through flags or the LASTPASS_USERNAME, LASTPASS_PASSWORD and LASTPASS_MFA environment variables",
	}
}
