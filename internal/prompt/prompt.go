// Package prompt asks the user questions on the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrInteractiveDisabled is returned when prompts are disabled via GITFLOW_NON_INTERACTIVE
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled (GITFLOW_NON_INTERACTIVE is set)")

// ErrCanceled is returned when the user interrupts a prompt
var ErrCanceled = errors.New("canceled")

// Chooser picks one of several options.
type Chooser interface {
	Choose(ctx context.Context, message string, options []string) (string, error)
}

// Interactive reports whether prompts can be shown: stdin is a terminal and
// GITFLOW_NON_INTERACTIVE is unset.
func Interactive() bool {
	if os.Getenv("GITFLOW_NON_INTERACTIVE") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func checkInteractiveAllowed(ctx context.Context) error {
	if os.Getenv("GITFLOW_NON_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return ctx.Err()
}

func askOne(p survey.Prompt, response any, opts ...survey.AskOpt) error {
	if err := survey.AskOne(p, response, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrCanceled
		}
		return err
	}
	return nil
}

// SurveyChooser asks with a select list.
type SurveyChooser struct{}

// Choose implements Chooser.
func (SurveyChooser) Choose(ctx context.Context, message string, options []string) (string, error) {
	switch len(options) {
	case 0:
		return "", fmt.Errorf("nothing to choose from")
	case 1:
		return options[0], nil
	}
	if err := checkInteractiveAllowed(ctx); err != nil {
		return "", err
	}

	var choice string
	if err := askOne(&survey.Select{Message: message, Options: options}, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// SurveyPassphrase asks for the SSH key passphrase without echo.
type SurveyPassphrase struct {
	KeyPath string
}

// Passphrase implements auth.PassphrasePrompter.
func (p SurveyPassphrase) Passphrase(ctx context.Context) (string, error) {
	if err := checkInteractiveAllowed(ctx); err != nil {
		return "", err
	}
	message := "SSH key passphrase:"
	if p.KeyPath != "" {
		message = fmt.Sprintf("Passphrase for %s:", p.KeyPath)
	}

	var passphrase string
	if err := askOne(&survey.Password{Message: message}, &passphrase); err != nil {
		return "", err
	}
	return passphrase, nil
}

// Input asks for a line of text.
func Input(ctx context.Context, message, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(ctx); err != nil {
		return "", err
	}
	var value string
	if err := askOne(&survey.Input{Message: message, Default: defaultValue}, &value, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(ctx); err != nil {
		return false, err
	}
	var ok bool
	if err := askOne(&survey.Confirm{Message: message, Default: defaultValue}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Static always picks the given option. It serves scripted runs and tests.
type Static string

// Choose implements Chooser.
func (s Static) Choose(_ context.Context, _ string, options []string) (string, error) {
	for _, o := range options {
		if o == string(s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %v", string(s), options)
}

// Preferred picks preferred whenever it is offered and asks fallback otherwise.
func Preferred(preferred string, fallback Chooser) Chooser {
	return preferredChooser{preferred: preferred, fallback: fallback}
}

type preferredChooser struct {
	preferred string
	fallback  Chooser
}

func (c preferredChooser) Choose(ctx context.Context, message string, options []string) (string, error) {
	if c.preferred != "" {
		for _, o := range options {
			if o == c.preferred {
				return o, nil
			}
		}
	}
	return c.fallback.Choose(ctx, message, options)
}
