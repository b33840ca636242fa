// Package login is the sign-in form: bearer token, viewer role and API
// address.
package login

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// Result holds the submitted values.
type Result struct {
	Token      string
	Role       model.Role
	APIBaseURL string
}

// Form wraps the huh form and the values it writes to.
type Form struct {
	form   *huh.Form
	token  string
	role   string
	apiURL string
}

// New builds the form, prefilled with the current API address and role.
func New(apiBaseURL string, role model.Role) *Form {
	f := &Form{apiURL: apiBaseURL, role: string(role)}
	if f.role == "" {
		f.role = string(model.RoleUser)
	}

	options := make([]huh.Option[string], len(model.Roles))
	for i, r := range model.Roles {
		options[i] = huh.NewOption(roleLabel(r), string(r))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API base URL").
				Description("Eventify backend (e.g., http://localhost:5000)").
				Value(&f.apiURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Access token").
				Description("Bearer token from the web app's local storage").
				EchoMode(huh.EchoModePassword).
				Value(&f.token).
				Validate(validateToken),
			huh.NewSelect[string]().
				Title("Role").
				Description("Decides where opened notifications lead").
				Options(options...).
				Value(&f.role),
		),
	)
	return f
}

// Run shows the form on the terminal and returns the submitted values.
func (f *Form) Run() (Result, error) {
	if err := f.form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Result{}, fmt.Errorf("login cancelled: %w", err)
		}
		return Result{}, fmt.Errorf("running login form: %w", err)
	}
	return f.result(), nil
}

func (f *Form) result() Result {
	return Result{
		Token:      credential.SanitizeToken(f.token),
		Role:       model.ParseRole(f.role),
		APIBaseURL: strings.TrimRight(strings.TrimSpace(f.apiURL), "/"),
	}
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleAdmin:
		return "Admin"
	case model.RoleOrganizer:
		return "Organizer"
	case model.RoleVendor:
		return "Vendor"
	default:
		return "Attendee"
	}
}

func validateToken(s string) error {
	if credential.SanitizeToken(s) == "" {
		return errors.New("token is required")
	}
	return nil
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}
