// Package app is the client session: it turns user intents into API calls and
// keeps the auth, contact and alert stores in step with the server.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"contact_keeper/internal/client/api"
	"contact_keeper/internal/client/state"
	"contact_keeper/internal/logging"
	"contact_keeper/internal/model"

	evbus "github.com/asaskevich/EventBus"
)

// Form checks done before anything is sent to the server.
var (
	ErrLoginIncomplete    = errors.New("You must enter a valid email and password")
	ErrRegisterIncomplete = errors.New("You must fill in all form fields")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters long")
	ErrPasswordMismatch   = errors.New("Password doesn't match Password Confirmation")
	ErrNoSuchContact      = errors.New("No such contact")
)

const minPasswordLength = 6

// API is the subset of *api.Client the session uses
type API interface {
	SetToken(token string)
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	CurrentUser(ctx context.Context) (*model.User, error)
	ListContacts(ctx context.Context) ([]model.Contact, error)
	CreateContact(ctx context.Context, req model.CreateContactRequest) (*model.Contact, error)
	UpdateContact(ctx context.Context, id string, req model.UpdateContactRequest) (*model.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

// TokenStore persists the token between runs
type TokenStore interface {
	Token(ctx context.Context) (string, bool, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type Options struct {
	API          API
	Tokens       TokenStore
	Bus          evbus.Bus
	Logger       logging.Logger
	AlertTimeout time.Duration
}

// RegisterForm mirrors the registration form, including the confirmation field
type RegisterForm struct {
	Name      string
	Email     string
	Password  string
	Password2 string
}

// App is one client session. It is driven from a single goroutine.
type App struct {
	Auth     *state.AuthStore
	Contacts *state.ContactStore
	Alerts   *state.AlertStore

	client       API
	tokens       TokenStore
	log          logging.Logger
	alertTimeout time.Duration
	filter       string
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &App{
		Auth:         state.NewAuthStore(opts.Bus),
		Contacts:     state.NewContactStore(opts.Bus),
		Alerts:       state.NewAlertStore(opts.Bus),
		client:       opts.API,
		tokens:       opts.Tokens,
		log:          log,
		alertTimeout: opts.AlertTimeout,
	}
}

// Start resumes a persisted session, if there is one.
func (a *App) Start(ctx context.Context) error {
	token, ok, err := a.tokens.Token(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not read stored token", "error", err)
		return err
	}
	if !ok {
		return nil
	}

	a.client.SetToken(token)
	a.Auth.Dispatch(state.TokenFound{Token: token})
	return a.LoadUser(ctx)
}

// LoadUser confirms the held token by fetching the profile behind it.
// A rejected token is discarded and the session drops back to logged out.
func (a *App) LoadUser(ctx context.Context) error {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		a.log.Debug(ctx, "load user failed", "error", err)
		a.dropSession(ctx)
		a.Auth.Dispatch(state.AuthError{Msg: message(err)})
		return err
	}
	a.Auth.Dispatch(state.UserLoaded{User: *user})
	return nil
}

func (a *App) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return a.fail(ErrLoginIncomplete)
	}

	token, err := a.client.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.Auth.Dispatch(state.LoginFail{Msg: message(err)})
		return a.fail(err)
	}

	a.acceptToken(ctx, token)
	a.Auth.Dispatch(state.LoginSuccess{Token: token})
	return a.LoadUser(ctx)
}

func (a *App) Register(ctx context.Context, form RegisterForm) error {
	switch {
	case strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" || form.Password == "":
		return a.fail(ErrRegisterIncomplete)
	case len(form.Password) < minPasswordLength:
		return a.fail(ErrPasswordTooShort)
	case form.Password != form.Password2:
		return a.fail(ErrPasswordMismatch)
	}

	token, err := a.client.Register(ctx, model.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		a.Auth.Dispatch(state.RegisterFail{Msg: message(err)})
		return a.fail(err)
	}

	a.acceptToken(ctx, token)
	a.Auth.Dispatch(state.RegisterSuccess{Token: token})
	return a.LoadUser(ctx)
}

// Logout forgets the token and everything loaded with it.
func (a *App) Logout(ctx context.Context) {
	a.dropSession(ctx)
	a.Auth.Dispatch(state.Logout{})
}

func (a *App) GetContacts(ctx context.Context) error {
	contacts, err := a.client.ListContacts(ctx)
	if err != nil {
		return a.contactFailure(ctx, err)
	}
	a.Contacts.Dispatch(state.FetchContacts{Contacts: contacts})
	a.refilter()
	return nil
}

// AddContact waits for the server so the new contact carries its real ID.
func (a *App) AddContact(ctx context.Context, req model.CreateContactRequest) (*model.Contact, error) {
	c, err := a.client.CreateContact(ctx, req)
	if err != nil {
		return nil, a.contactFailure(ctx, err)
	}
	a.Contacts.Dispatch(state.AddContact{Contact: *c})
	a.refilter()
	return c, nil
}

// UpdateContact applies c locally, then sends it. On failure the list is refetched.
func (a *App) UpdateContact(ctx context.Context, c model.Contact) (*model.Contact, error) {
	a.Contacts.Dispatch(state.UpdateContact{Contact: c})
	a.refilter()

	updated, err := a.client.UpdateContact(ctx, c.ID, model.UpdateContactRequest{
		Name:  &c.Name,
		Email: &c.Email,
		Phone: &c.Phone,
		Type:  &c.Type,
	})
	if err != nil {
		return nil, a.rollback(ctx, err)
	}

	a.Contacts.Dispatch(state.UpdateContact{Contact: *updated})
	a.Contacts.Dispatch(state.ClearCurrent{})
	a.refilter()
	return updated, nil
}

// DeleteContact removes id locally, then on the server. On failure the list is refetched.
func (a *App) DeleteContact(ctx context.Context, id string) error {
	a.Contacts.Dispatch(state.DeleteContact{ID: id})
	if cur := a.Contacts.State().Current; cur != nil && cur.ID == id {
		a.Contacts.Dispatch(state.ClearCurrent{})
	}
	a.refilter()

	if err := a.client.DeleteContact(ctx, id); err != nil {
		return a.rollback(ctx, err)
	}
	return nil
}

// SetCurrent loads the contact with id into the edit cursor.
func (a *App) SetCurrent(id string) (model.Contact, error) {
	for _, c := range a.Contacts.State().Contacts {
		if c.ID == id {
			a.Contacts.Dispatch(state.SetCurrent{Contact: c})
			return c, nil
		}
	}
	return model.Contact{}, ErrNoSuchContact
}

func (a *App) ClearCurrent() {
	a.Contacts.Dispatch(state.ClearCurrent{})
}

// Filter narrows the visible contacts. Empty text clears the filter.
func (a *App) Filter(text string) state.ContactState {
	if text == "" {
		return a.ClearFilter()
	}
	a.filter = text
	return a.Contacts.Dispatch(state.FilterContacts{Text: text})
}

func (a *App) ClearFilter() state.ContactState {
	a.filter = ""
	return a.Contacts.Dispatch(state.ClearFilter{})
}

func (a *App) acceptToken(ctx context.Context, token string) {
	a.client.SetToken(token)
	if err := a.tokens.SetToken(ctx, token); err != nil {
		// the session still works, it just won't survive a restart
		a.log.Warn(ctx, "could not persist token", "error", err)
	}
}

func (a *App) dropSession(ctx context.Context) {
	a.client.SetToken("")
	if err := a.tokens.ClearToken(ctx); err != nil {
		a.log.Warn(ctx, "could not clear stored token", "error", err)
	}
	a.filter = ""
	a.Contacts.Dispatch(state.ClearContacts{})
}

func (a *App) refilter() {
	if a.filter != "" {
		a.Contacts.Dispatch(state.FilterContacts{Text: a.filter})
	}
}

func (a *App) contactFailure(ctx context.Context, err error) error {
	if api.IsUnauthorized(err) {
		a.dropSession(ctx)
		a.Auth.Dispatch(state.AuthError{Msg: message(err)})
		return a.fail(err)
	}
	a.Contacts.Dispatch(state.ContactError{Msg: message(err)})
	return a.fail(err)
}

func (a *App) rollback(ctx context.Context, err error) error {
	failure := a.contactFailure(ctx, err)
	if a.Auth.State().Status == state.LoggedIn {
		if refetchErr := a.GetContacts(ctx); refetchErr != nil {
			a.log.Warn(ctx, "refetch after failed change", "error", refetchErr)
		}
	}
	return failure
}

func (a *App) fail(err error) error {
	a.Alerts.SetAlert(message(err), state.AlertDanger, a.alertTimeout)
	return err
}

func message(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return err.Error()
}
