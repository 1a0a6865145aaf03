package interactive

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// ConfirmAdapter asks yes/no questions on the terminal
type ConfirmAdapter struct {
	config *config.RuntimeConfig
}

// NewConfirmAdapter creates a new confirm adapter
func NewConfirmAdapter(cfg *config.RuntimeConfig) *ConfirmAdapter {
	return &ConfirmAdapter{config: cfg}
}

// Confirm returns true when the user answers yes. Declining or pressing
// ctrl+c answers no.
func (c *ConfirmAdapter) Confirm(message string) (bool, error) {
	if c.config.NonInteractive {
		return false, fmt.Errorf("confirmation required in non-interactive mode: %s", message)
	}

	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
		return false, nil
	}
	return false, fmt.Errorf("confirmation prompt failed: %w", err)
}

// PromptSecret reads a masked value, used for the deployer key
func PromptSecret(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validate,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return value, nil
}

// Ensure the adapter implements the interface
var _ usecase.Confirmer = (*ConfirmAdapter)(nil)
