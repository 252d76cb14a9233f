package storefront

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	domsession "example.com/storefront/app/internal/domain/session"
	authuc "example.com/storefront/app/internal/usecase/auth"
	cartuc "example.com/storefront/app/internal/usecase/cart"
	wishlistuc "example.com/storefront/app/internal/usecase/wishlist"
)

type Dependencies struct {
	Authenticator authuc.Authenticator
	Inspector     authuc.CredentialInspector
	Cart          cartuc.CartGateway
	Wishlist      wishlistuc.WishlistGateway
	Store         domsession.Repository
}

// openTimeout bounds one shared session load, including the refetches a
// restored session triggers.
const openTimeout = 30 * time.Second

type Option func(*Registry)

func WithSessionTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.reg = reg
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) {
		r.newID = newID
	}
}

// Registry keeps the live storefronts of this process, keyed by the id the
// browser carries in its session cookie.
type Registry struct {
	deps  Dependencies
	store domsession.Repository
	ttl   time.Duration
	log   *slog.Logger
	reg   prometheus.Registerer
	now   func() time.Time
	newID func() string

	group  singleflight.Group
	active prometheus.Gauge

	mu   sync.Mutex
	open map[string]*Storefront
}

func NewRegistry(deps Dependencies, opts ...Option) *Registry {
	r := &Registry{
		deps:  deps,
		store: deps.Store,
		ttl:   7 * 24 * time.Hour,
		log:   slog.Default(),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		open:  make(map[string]*Storefront),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.active = promauto.With(r.reg).NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "active_sessions",
		Help:      "Storefronts currently held in memory",
	})
	return r
}

// Create starts a fresh anonymous storefront.
func (r *Registry) Create(ctx context.Context) *Storefront {
	sf := r.build(r.newID())
	r.put(sf)
	r.log.Debug("storefront created", slog.String("storefront", sf.ID))
	return sf
}

// Open returns the storefront for id. One that is not in memory is rebuilt
// from the session store; the snapshots are refetched, never loaded. An id
// with no stored session comes back as an anonymous storefront under the
// same id.
func (r *Registry) Open(ctx context.Context, id string) (*Storefront, error) {
	if sf := r.lookup(id); sf != nil {
		return sf, nil
	}

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		if sf := r.lookup(id); sf != nil {
			return sf, nil
		}
		// the load is shared by every waiting caller, so it outlives the
		// request that happened to start it
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), openTimeout)
		defer cancel()

		sf := r.build(id)

		rec, err := r.store.Load(ctx, id)
		switch {
		case errors.Is(err, domsession.ErrSessionNotFound):
		case err != nil:
			return nil, err
		default:
			if err := sf.Auth.Restore(ctx, rec.Session()); err != nil {
				r.log.Debug("stored session not restorable", slog.String("storefront", id), slog.Any("err", err))
				_ = r.store.Delete(ctx, id)
			}
		}

		r.put(sf)
		return sf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Storefront), nil
}

// Close signs the storefront out and forgets it.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	sf, ok := r.open[id]
	if ok {
		delete(r.open, id)
		r.active.Dec()
	}
	r.mu.Unlock()

	if ok {
		sf.Auth.SignOut(ctx)
	}
	return r.store.Delete(ctx, id)
}

// EvictIdle drops storefronts unused for longer than idle from memory. Their
// stored sessions stay, so the next request rebuilds them.
func (r *Registry) EvictIdle(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sf := range r.open {
		if sf.lastSeen.Before(cutoff) {
			delete(r.open, id)
			evicted++
		}
	}
	r.active.Sub(float64(evicted))
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

func (r *Registry) build(id string) *Storefront {
	log := r.log.With(slog.String("storefront", id))
	sf := &Storefront{
		ID:       id,
		Auth:     authuc.NewHolder(r.deps.Authenticator, r.deps.Inspector, authuc.WithClock(r.now)),
		Cart:     cartuc.NewSynchronizer(r.deps.Cart, log),
		Wishlist: wishlistuc.NewSynchronizer(r.deps.Wishlist, log),
		lastSeen: r.now(),
	}
	sf.Auth.Subscribe(r.follow(sf))
	return sf
}

func (r *Registry) put(sf *Storefront) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[sf.ID]; !ok {
		r.active.Inc()
	}
	r.open[sf.ID] = sf
}

func (r *Registry) lookup(id string) *Storefront {
	r.mu.Lock()
	defer r.mu.Unlock()
	sf, ok := r.open[id]
	if ok {
		sf.lastSeen = r.now()
	}
	return sf
}
