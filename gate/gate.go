// Package gate decides which view a browser profile sees from its
// persisted session and the user's role.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"coursehub/api"
	"coursehub/helper"
	"coursehub/state"

	"go.uber.org/zap"
)

type View string

const (
	ViewLogin      View = "login"
	ViewStudent    View = "student"
	ViewInstructor View = "instructor"
	ViewAdmin      View = "admin"
	ViewAnalyst    View = "analyst"
)

type State string

const (
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// PendingApproval is shown when signup succeeds without a user.
const PendingApproval = "Account created. Please wait for admin approval before logging in."

var ErrUnknownRole = errors.New("account has an unrecognized role")

// FormError is a local validation failure; no request was sent.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

// Message picks the text to show for err: form text, the server's
// message, or fallback.
func Message(err error, fallback string) string {
	var ferr *FormError
	switch {
	case errors.As(err, &ferr):
		return ferr.Message
	case errors.Is(err, ErrUnknownRole):
		return "Your account role is not supported"
	case api.ServerMessage(err) != "":
		return api.ServerMessage(err)
	}
	return fallback
}

type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResult, error)
	Signup(ctx context.Context, req api.SignupRequest) (api.SignupResult, error)
}

type LoginForm struct {
	Email    string `validate:"required,email" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

type SignupForm struct {
	Name     string     `validate:"required" label:"Name"`
	Email    string     `validate:"required,email" label:"Email"`
	Password string     `validate:"required" label:"Password"`
	Role     state.Role `validate:"oneof=student instructor administrator data_analyst" label:"Role"`
}

// SignupResult holds a Session when the account may log in immediately,
// otherwise only a Notice.
type SignupResult struct {
	Session *state.Session
	Notice  string
}

type Gate struct {
	auth     Authenticator
	sessions *state.SessionStore
	log      *zap.Logger

	mu    sync.RWMutex
	state State
}

func New(auth Authenticator, sessions *state.SessionStore, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{auth: auth, sessions: sessions, log: log, state: StateLoading}
}

// Init restores the persisted session. It is the only way out of Loading.
func (g *Gate) Init(ctx context.Context) error {
	sess, err := g.sessions.Load(ctx)
	if err != nil {
		g.setState(StateUnauthenticated)
		return fmt.Errorf("restore session: %w", err)
	}
	if sess == nil {
		g.setState(StateUnauthenticated)
		return nil
	}
	g.setState(StateAuthenticated)
	return nil
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Session returns the signed-in user, or nil.
func (g *Gate) Session() *state.Session {
	if g.State() != StateAuthenticated {
		return nil
	}
	return g.sessions.Current()
}

func (g *Gate) View() View {
	sess := g.Session()
	if sess == nil {
		return ViewLogin
	}
	return ViewFor(sess.Role)
}

// ViewFor maps a role to its dashboard. Unknown roles get the login view.
func ViewFor(r state.Role) View {
	switch r {
	case state.RoleStudent:
		return ViewStudent
	case state.RoleInstructor:
		return ViewInstructor
	case state.RoleAdministrator:
		return ViewAdmin
	case state.RoleAnalyst:
		return ViewAnalyst
	}
	return ViewLogin
}

func (g *Gate) Login(ctx context.Context, email, password string) (state.Session, error) {
	form := LoginForm{Email: strings.TrimSpace(email), Password: password}
	if err := helper.ValidateStruct(form); err != nil {
		return state.Session{}, &FormError{Message: helper.FormatValidationErrors(err)}
	}

	res, err := g.auth.Login(ctx, api.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		g.log.Info("login refused", zap.String("email", form.Email), zap.Error(err))
		return state.Session{}, err
	}
	return g.signIn(ctx, res.User, res.Token)
}

func (g *Gate) Signup(ctx context.Context, form SignupForm) (SignupResult, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if form.Role == "" {
		form.Role = state.RoleStudent
	}
	if err := helper.ValidateStruct(form); err != nil {
		return SignupResult{}, &FormError{Message: helper.FormatValidationErrors(err)}
	}

	res, err := g.auth.Signup(ctx, api.SignupRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
	})
	if err != nil {
		return SignupResult{}, err
	}
	if res.User == nil {
		notice := res.Message
		if notice == "" {
			notice = PendingApproval
		}
		g.log.Info("signup awaiting approval", zap.String("email", form.Email), zap.String("role", string(form.Role)))
		return SignupResult{Notice: notice}, nil
	}

	sess, err := g.signIn(ctx, *res.User, res.Token)
	if err != nil {
		return SignupResult{}, err
	}
	return SignupResult{Session: &sess, Notice: res.Message}, nil
}

// signIn persists the session before the gate reports Authenticated.
func (g *Gate) signIn(ctx context.Context, u api.User, token string) (state.Session, error) {
	if !u.Role.Valid() {
		g.log.Warn("refusing session with unknown role", zap.String("user_id", u.UserID), zap.String("role", string(u.Role)))
		return state.Session{}, ErrUnknownRole
	}
	sess := state.Session{UserID: u.UserID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}
	if err := g.sessions.Save(ctx, sess); err != nil {
		return state.Session{}, fmt.Errorf("persist session: %w", err)
	}
	g.setState(StateAuthenticated)
	g.log.Info("signed in", zap.String("user_id", sess.UserID), zap.String("role", string(sess.Role)))
	return sess, nil
}

// Logout clears storage. The gate is unauthenticated even if the delete
// fails, and the error is returned.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.sessions.Clear(ctx)
	g.setState(StateUnauthenticated)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
