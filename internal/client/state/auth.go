package state

import (
	"fmt"
	"sync"

	"contact_keeper/internal/model"

	evbus "github.com/asaskevich/EventBus"
)

// TopicAuthChanged receives the new AuthState after every dispatch
const TopicAuthChanged = "auth:changed"

type AuthStatus int

const (
	// LoggedOut: no token, or the token was rejected.
	LoggedOut AuthStatus = iota
	// Pending: a token is held but the profile has not been confirmed yet.
	Pending
	// LoggedIn: the server returned the profile for the token.
	LoggedIn
)

func (s AuthStatus) String() string {
	switch s {
	case LoggedOut:
		return "logged out"
	case Pending:
		return "pending"
	case LoggedIn:
		return "logged in"
	default:
		return fmt.Sprintf("AuthStatus(%d)", int(s))
	}
}

type AuthState struct {
	Status AuthStatus
	Token  string
	User   *model.User
	Error  string
}

func (s AuthState) IsAuthenticated() bool {
	return s.Status == LoggedIn
}

func (s AuthState) clone() AuthState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// AuthAction is implemented by every action the auth reducer understands.
type AuthAction interface {
	authAction()
}

type (
	// TokenFound is dispatched at startup when a token was persisted earlier.
	TokenFound      struct{ Token string }
	UserLoaded      struct{ User model.User }
	AuthError       struct{ Msg string }
	LoginSuccess    struct{ Token string }
	LoginFail       struct{ Msg string }
	RegisterSuccess struct{ Token string }
	RegisterFail    struct{ Msg string }
	Logout          struct{}
	ClearErrors     struct{}
)

func (TokenFound) authAction()      {}
func (UserLoaded) authAction()      {}
func (AuthError) authAction()       {}
func (LoginSuccess) authAction()    {}
func (LoginFail) authAction()       {}
func (RegisterSuccess) authAction() {}
func (RegisterFail) authAction()    {}
func (Logout) authAction()          {}
func (ClearErrors) authAction()     {}

// ReduceAuth returns the state after applying a.
//
//	LoggedOut --TokenFound/LoginSuccess/RegisterSuccess--> Pending
//	Pending   --UserLoaded--> LoggedIn
//	any       --AuthError/LoginFail/RegisterFail/Logout--> LoggedOut
func ReduceAuth(s AuthState, a AuthAction) AuthState {
	next := s.clone()

	switch a := a.(type) {
	case TokenFound:
		next = AuthState{Status: Pending, Token: a.Token}
	case LoginSuccess:
		next = AuthState{Status: Pending, Token: a.Token}
	case RegisterSuccess:
		next = AuthState{Status: Pending, Token: a.Token}
	case UserLoaded:
		if next.Token == "" {
			// a profile without a token cannot authenticate anything
			return next
		}
		u := a.User
		next.Status = LoggedIn
		next.User = &u
		next.Error = ""
	case AuthError:
		next = AuthState{Status: LoggedOut, Error: a.Msg}
	case LoginFail:
		next = AuthState{Status: LoggedOut, Error: a.Msg}
	case RegisterFail:
		next = AuthState{Status: LoggedOut, Error: a.Msg}
	case Logout:
		next = AuthState{Status: LoggedOut}
	case ClearErrors:
		next.Error = ""
	default:
		panic(fmt.Sprintf("state: unhandled auth action %T", a))
	}
	return next
}

// AuthStore is a mutex guarded AuthState driven by ReduceAuth.
type AuthStore struct {
	mu    sync.RWMutex
	state AuthState
	bus   evbus.Bus
}

func NewAuthStore(bus evbus.Bus) *AuthStore {
	return &AuthStore{state: AuthState{Status: LoggedOut}, bus: bus}
}

func (s *AuthStore) Dispatch(a AuthAction) AuthState {
	s.mu.Lock()
	s.state = ReduceAuth(s.state, a)
	snapshot := s.state.clone()
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(TopicAuthChanged, snapshot.clone())
	}
	return snapshot
}

func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}
