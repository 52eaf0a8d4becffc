package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Interactive prompts used by the plain CLI commands when a flag was not
// provided. The full-screen UI has its own forms; these are the one-shot
// fallbacks.

// PromptCredentials asks for email and password
func PromptCredentials(email string) (string, string, error) {
	var password string

	fields := []huh.Field{}
	if email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&email))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password))

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("prompt failed: %w", err)
	}

	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password are required")
	}
	return email, password, nil
}

// PromptForString displays an interactive prompt and returns the user's input
func PromptForString(title, placeholder string, required bool) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if required && value == "" {
		return "", fmt.Errorf("value is required")
	}
	return value, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}
