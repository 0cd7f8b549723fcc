// Package cli is the terminal front end of the contact keeper client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"contact_keeper/internal/client/app"
	"contact_keeper/internal/client/state"
	"contact_keeper/internal/model"

	evbus "github.com/asaskevich/EventBus"
)

const helpText = `Commands:
  register             create an account
  login                sign in
  logout               sign out
  whoami               show who is signed in
  list                 show contacts
  add                  add a contact
  edit <id>            pick a contact to edit
  update               save changes to the picked contact
  clear                forget the picked contact
  delete <id>          delete a contact
  filter <text>        show contacts whose name or email contains text
  unfilter             show all contacts
  about                about this app
  help                 this text
  exit                 leave`

const aboutText = "Contact Keeper: keep track of your personal and business contacts."

var errQuit = errors.New("quit")

// homeCommands live on the protected home route
var homeCommands = map[string]bool{
	"l": true, "list": true, "home": true, "add": true, "edit": true, "update": true,
	"clear": true, "delete": true, "rm": true, "filter": true, "unfilter": true,
}

// Shell reads commands line by line and runs them against an app session.
type Shell struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewShell subscribes to alerts on bus so they are printed as they are raised.
func NewShell(a *app.App, bus evbus.Bus, in io.Reader, out io.Writer) (*Shell, error) {
	s := &Shell{
		app:  a,
		in:   bufio.NewReader(in),
		out:  out,
		seen: map[string]time.Time{},
	}
	if bus != nil {
		if err := bus.Subscribe(state.TopicAlertsChanged, s.showAlerts); err != nil {
			return nil, fmt.Errorf("subscribe to alerts: %w", err)
		}
	}
	return s, nil
}

// Run loops until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if s.app.Auth.State().Status == state.LoggedIn {
		s.println(app.Greeting(s.app.Auth.State()))
		s.home(ctx)
	} else {
		s.println("Type help for a list of commands.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprintf(s.out, "ck %s> ", s.prompt())
		line, err := s.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				s.println()
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := s.Exec(ctx, fields[0], fields[1:]); errors.Is(err, errQuit) {
			s.println("Bye!")
			return nil
		}
	}
}

// Exec runs a single command. Failures are reported through alerts, so the
// returned error is only interesting to tests and to the exit command.
func (s *Shell) Exec(ctx context.Context, cmd string, args []string) error {
	switch strings.ToLower(cmd) {
	case "help", "?":
		s.println(helpText)
		return nil
	case "about":
		s.println(aboutText)
		return nil
	case "exit", "quit":
		return errQuit
	case "register":
		return s.register(ctx)
	case "login":
		return s.login(ctx)
	case "logout":
		s.app.Logout(ctx)
		s.println("Logged out.")
		return nil
	case "whoami":
		return s.whoami()
	}

	if !homeCommands[strings.ToLower(cmd)] {
		s.println("Unknown command:", cmd)
		return nil
	}
	if !s.allowed() {
		return nil
	}

	switch strings.ToLower(cmd) {
	case "l", "list", "home":
		return s.list(ctx)
	case "add":
		return s.add(ctx)
	case "edit":
		return s.edit(args)
	case "update":
		return s.update(ctx)
	case "clear":
		s.app.ClearCurrent()
		return nil
	case "delete", "rm":
		return s.delete(ctx, args)
	case "filter":
		s.app.Filter(strings.Join(args, " "))
		s.printContacts()
		return nil
	case "unfilter":
		s.app.ClearFilter()
		s.printContacts()
		return nil
	}
	return nil
}

func (s *Shell) prompt() string {
	auth := s.app.Auth.State()
	if auth.Status == state.LoggedIn && auth.User != nil {
		return auth.User.Name
	}
	return auth.Status.String()
}

func (s *Shell) allowed() bool {
	route, ok := app.Resolve(app.RouteHome, s.app.Auth.State())
	switch {
	case !ok:
		s.println("Still checking your session, try again in a moment.")
		return false
	case route == app.RouteLogin:
		s.println("Please log in first.")
		return false
	}
	return true
}

func (s *Shell) register(ctx context.Context) error {
	if s.redirectedHome(ctx, app.RouteRegister) {
		return nil
	}

	var form app.RegisterForm
	var err error
	if form.Name, err = readText(s.in, s.out, "Name"); err != nil {
		return err
	}
	if form.Email, err = readText(s.in, s.out, "Email"); err != nil {
		return err
	}
	if form.Password, err = readSecret(s.in, s.out, "Password"); err != nil {
		return err
	}
	if form.Password2, err = readSecret(s.in, s.out, "Confirm password"); err != nil {
		return err
	}

	if err := s.app.Register(ctx, form); err != nil {
		return err
	}
	s.println(app.Greeting(s.app.Auth.State()))
	s.home(ctx)
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	if s.redirectedHome(ctx, app.RouteLogin) {
		return nil
	}

	email, err := readText(s.in, s.out, "Email")
	if err != nil {
		return err
	}
	password, err := readSecret(s.in, s.out, "Password")
	if err != nil {
		return err
	}

	if err := s.app.Login(ctx, email, password); err != nil {
		return err
	}
	s.println(app.Greeting(s.app.Auth.State()))
	s.home(ctx)
	return nil
}

// redirectedHome shows the contact list instead of a login or register form when already signed in.
func (s *Shell) redirectedHome(ctx context.Context, want app.Route) bool {
	if route, _ := app.Resolve(want, s.app.Auth.State()); route == app.RouteHome {
		s.println("Already logged in as", s.app.Auth.State().User.Name)
		s.home(ctx)
		return true
	}
	return false
}

func (s *Shell) whoami() error {
	if g := app.Greeting(s.app.Auth.State()); g != "" {
		u := s.app.Auth.State().User
		s.println(g, "<"+u.Email+">")
		return nil
	}
	s.println("Not logged in.")
	return nil
}

func (s *Shell) home(ctx context.Context) {
	if err := s.app.GetContacts(ctx); err != nil {
		return
	}
	s.printContacts()
}

func (s *Shell) list(ctx context.Context) error {
	if err := s.app.GetContacts(ctx); err != nil {
		return err
	}
	s.printContacts()
	return nil
}

func (s *Shell) add(ctx context.Context) error {
	var req model.CreateContactRequest
	var err error
	if req.Name, err = readText(s.in, s.out, "Name"); err != nil {
		return err
	}
	if req.Email, err = readText(s.in, s.out, "Email"); err != nil {
		return err
	}
	if req.Phone, err = readText(s.in, s.out, "Phone"); err != nil {
		return err
	}
	if req.Type, err = readTextDefault(s.in, s.out, "Type (personal/business)", model.ContactTypePersonal); err != nil {
		return err
	}

	c, err := s.app.AddContact(ctx, req)
	if err != nil {
		return err
	}
	s.println("Added", c.Name, "["+c.ID+"]")
	return nil
}

func (s *Shell) edit(args []string) error {
	if len(args) != 1 {
		s.println("Usage: edit <id>")
		return nil
	}
	c, err := s.app.SetCurrent(args[0])
	if err != nil {
		s.println(err)
		return err
	}
	s.println("Editing:")
	s.printContact(c)
	s.println("Type update to change it or clear to stop editing.")
	return nil
}

func (s *Shell) update(ctx context.Context) error {
	cur := s.app.Contacts.State().Current
	if cur == nil {
		s.println("Pick a contact with edit <id> first.")
		return nil
	}

	c := *cur
	var err error
	if c.Name, err = readTextDefault(s.in, s.out, "Name", c.Name); err != nil {
		return err
	}
	if c.Email, err = readOptional(s.in, s.out, "Email", c.Email); err != nil {
		return err
	}
	if c.Phone, err = readOptional(s.in, s.out, "Phone", c.Phone); err != nil {
		return err
	}
	if c.Type, err = readTextDefault(s.in, s.out, "Type (personal/business)", c.Type); err != nil {
		return err
	}

	updated, err := s.app.UpdateContact(ctx, c)
	if err != nil {
		return err
	}
	s.println("Updated", updated.Name)
	return nil
}

func (s *Shell) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		s.println("Usage: delete <id>")
		return nil
	}
	if err := s.app.DeleteContact(ctx, args[0]); err != nil {
		return err
	}
	s.println("Contact Deleted")
	return nil
}

func (s *Shell) printContacts() {
	st := s.app.Contacts.State()
	if st.Empty() {
		s.println(state.EmptyContactsMessage)
		return
	}
	visible := st.Visible()
	if len(visible) == 0 {
		s.println("No contacts match the filter.")
		return
	}
	for _, c := range visible {
		s.printContact(c)
	}
}

func (s *Shell) printContact(c model.Contact) {
	fmt.Fprintf(s.out, "[%s] %s (%s)\n", c.ID, c.Name, c.Type)
	if c.Email != "" {
		fmt.Fprintf(s.out, "    email: %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(s.out, "    phone: %s\n", c.Phone)
	}
}

// showAlerts prints alerts the user has not seen yet. A repeated alert shows again.
func (s *Shell) showAlerts(alerts []state.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range alerts {
		if exp, ok := s.seen[a.ID]; ok && exp.Equal(a.ExpiresAt) {
			continue
		}
		s.seen[a.ID] = a.ExpiresAt
		fmt.Fprintf(s.out, "! %s: %s\n", a.Kind, a.Msg)
	}
}

func (s *Shell) println(args ...any) {
	fmt.Fprintln(s.out, args...)
}
