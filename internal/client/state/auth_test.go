package state

import (
	"testing"

	"contact_keeper/internal/model"

	evbus "github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harry = model.User{ID: "u1", Name: "Harry Potter", Email: "hpotter@x.io"}

func TestReduceAuth_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		start  AuthState
		action AuthAction
		want   AuthState
	}{
		{
			name:   "persisted token",
			start:  AuthState{},
			action: TokenFound{Token: "tok"},
			want:   AuthState{Status: Pending, Token: "tok"},
		},
		{
			name:   "login success",
			start:  AuthState{Error: "Incorrect password"},
			action: LoginSuccess{Token: "tok"},
			want:   AuthState{Status: Pending, Token: "tok"},
		},
		{
			name:   "register success",
			start:  AuthState{},
			action: RegisterSuccess{Token: "tok"},
			want:   AuthState{Status: Pending, Token: "tok"},
		},
		{
			name:   "user loaded",
			start:  AuthState{Status: Pending, Token: "tok"},
			action: UserLoaded{User: harry},
			want:   AuthState{Status: LoggedIn, Token: "tok", User: &harry},
		},
		{
			name:   "user loaded without token",
			start:  AuthState{},
			action: UserLoaded{User: harry},
			want:   AuthState{},
		},
		{
			name:   "token rejected",
			start:  AuthState{Status: Pending, Token: "tok"},
			action: AuthError{Msg: "Token is not valid"},
			want:   AuthState{Status: LoggedOut, Error: "Token is not valid"},
		},
		{
			name:   "login fail",
			start:  AuthState{},
			action: LoginFail{Msg: "User doesn't exist"},
			want:   AuthState{Status: LoggedOut, Error: "User doesn't exist"},
		},
		{
			name:   "register fail",
			start:  AuthState{},
			action: RegisterFail{Msg: "User already exists in database"},
			want:   AuthState{Status: LoggedOut, Error: "User already exists in database"},
		},
		{
			name:   "logout",
			start:  AuthState{Status: LoggedIn, Token: "tok", User: &harry},
			action: Logout{},
			want:   AuthState{Status: LoggedOut},
		},
		{
			name:   "clear errors",
			start:  AuthState{Status: LoggedOut, Error: "Incorrect password"},
			action: ClearErrors{},
			want:   AuthState{Status: LoggedOut},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReduceAuth(tt.start, tt.action))
		})
	}
}

func TestReduceAuth_UserIsCopied(t *testing.T) {
	u := harry
	s := ReduceAuth(AuthState{Status: Pending, Token: "tok"}, UserLoaded{User: u})
	u.Name = "changed"

	require.NotNil(t, s.User)
	assert.Equal(t, "Harry Potter", s.User.Name)
	assert.True(t, s.IsAuthenticated())
}

type unknownAuthAction struct{ AuthAction }

func TestReduceAuth_UnknownActionPanics(t *testing.T) {
	assert.Panics(t, func() {
		ReduceAuth(AuthState{}, unknownAuthAction{})
	})
}

func TestAuthStatus_String(t *testing.T) {
	assert.Equal(t, "logged out", LoggedOut.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "logged in", LoggedIn.String())
	assert.Equal(t, "AuthStatus(7)", AuthStatus(7).String())
}

func TestAuthStore_Dispatch(t *testing.T) {
	bus := evbus.New()
	var statuses []AuthStatus
	require.NoError(t, bus.Subscribe(TopicAuthChanged, func(s AuthState) {
		statuses = append(statuses, s.Status)
	}))

	store := NewAuthStore(bus)
	assert.Equal(t, LoggedOut, store.State().Status)

	store.Dispatch(LoginSuccess{Token: "tok"})
	store.Dispatch(UserLoaded{User: harry})
	store.Dispatch(Logout{})

	assert.Equal(t, []AuthStatus{Pending, LoggedIn, LoggedOut}, statuses)
	assert.Empty(t, store.State().Token)
}
