// Package profile keeps the per-browser state: the gate, the theme and
// the dashboard of whoever is signed in.
package profile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coursehub/api"
	"coursehub/dashboard"
	"coursehub/database"
	"coursehub/gate"
	"coursehub/state"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Dashboard is what every role dashboard offers the web layer.
type Dashboard interface {
	Mount(ctx context.Context)
	SetTab(t dashboard.Tab) bool
	Notice() *dashboard.Notice
	Dismiss()
}

// Client is one browser profile.
type Client struct {
	ID    string
	Gate  *gate.Gate
	Theme *state.ThemeStore

	api *api.Client
	log *zap.Logger

	mu     sync.Mutex
	dash   Dashboard
	dashOf string
}

// Dashboard returns the dashboard for the signed-in user, building and
// mounting it on first use. It returns nil when nobody is signed in.
func (c *Client) Dashboard(ctx context.Context) Dashboard {
	sess := c.Gate.Session()
	if sess == nil {
		c.Reset()
		return nil
	}

	c.mu.Lock()
	if c.dash != nil && c.dashOf == sess.UserID {
		d := c.dash
		c.mu.Unlock()
		return d
	}
	d := c.build(*sess)
	c.dash, c.dashOf = d, sess.UserID
	c.mu.Unlock()

	d.Mount(ctx)
	return d
}

// Refresh reloads the dashboard data, as a full page load does.
func (c *Client) Refresh(ctx context.Context) Dashboard {
	c.mu.Lock()
	prev := c.dash
	c.mu.Unlock()

	d := c.Dashboard(ctx)
	if d != nil && d == prev {
		d.Mount(ctx)
	}
	return d
}

// Reset drops the dashboard, e.g. on logout.
func (c *Client) Reset() {
	c.mu.Lock()
	c.dash, c.dashOf = nil, ""
	c.mu.Unlock()
}

func (c *Client) build(sess state.Session) Dashboard {
	client := c.api
	if sess.Token != "" {
		client = client.WithToken(sess.Token)
	}
	log := c.log.With(zap.String("profile", c.ID))
	switch sess.Role {
	case state.RoleStudent:
		return dashboard.NewStudent(client, sess, log)
	case state.RoleInstructor:
		return dashboard.NewInstructor(client, sess, log)
	case state.RoleAdministrator:
		return dashboard.NewAdmin(client, sess, log)
	default:
		return dashboard.NewAnalyst(client, sess, log)
	}
}

// Defaults for the in-memory client cache.
const (
	DefaultMaxClients = 10000
	DefaultIdleTTL    = 2 * time.Hour
)

// Registry holds live clients by profile id. A profile not in memory is
// rebuilt from the store, which is how a restart restores sessions, so
// idle clients can be evicted at any time.
type Registry struct {
	kv     database.KV
	api    *api.Client
	sealer state.Sealer
	log    *zap.Logger

	maxClients int
	idleTTL    time.Duration

	mu      sync.Mutex
	clients *expirable.LRU[string, *Client]
}

type RegistryOption func(*Registry)

// WithLimits caps how many clients stay in memory and how long an unused
// one is kept.
func WithLimits(maxClients int, idleTTL time.Duration) RegistryOption {
	return func(r *Registry) {
		if maxClients > 0 {
			r.maxClients = maxClients
		}
		if idleTTL > 0 {
			r.idleTTL = idleTTL
		}
	}
}

func NewRegistry(kv database.KV, client *api.Client, sealer state.Sealer, log *zap.Logger, opts ...RegistryOption) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		kv:         kv,
		api:        client,
		sealer:     sealer,
		log:        log,
		maxClients: DefaultMaxClients,
		idleTTL:    DefaultIdleTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.clients = expirable.NewLRU[string, *Client](r.maxClients, nil, r.idleTTL)
	return r
}

func (r *Registry) Get(ctx context.Context, id string) (*Client, error) {
	if c, ok := r.clients.Get(id); ok {
		return c, nil
	}

	c, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.clients.Get(id); ok {
		return existing, nil
	}
	r.clients.Add(id, c)
	return c, nil
}

func (r *Registry) load(ctx context.Context, id string) (*Client, error) {
	bucket := database.Scope(r.kv, id)
	sessions := state.NewSessionStore(bucket)
	if r.sealer != nil {
		sessions.WithSealer(r.sealer)
	}
	theme := state.NewThemeStore(bucket)
	if _, err := theme.Load(ctx); err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	g := gate.New(r.api, sessions, r.log.With(zap.String("profile", id)))
	if err := g.Init(ctx); err != nil {
		return nil, err
	}
	return &Client{ID: id, Gate: g, Theme: theme, api: r.api, log: r.log}, nil
}

// Len reports how many profiles are held in memory.
func (r *Registry) Len() int {
	return r.clients.Len()
}

type ctxKey struct{}

func WithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(ctxKey{}).(*Client)
	return c
}
