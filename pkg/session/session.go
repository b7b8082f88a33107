package session

import (
	"FoodShare/domain"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// DefaultInitTimeout bounds how long Start waits for a session restore.
const DefaultInitTimeout = 5 * time.Second

type (
	// Auth is the identity backend. *client.Client satisfies it.
	Auth interface {
		Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
		OAuthLogin(ctx context.Context, req domain.OAuthLoginRequest) (*domain.AuthResponse, error)
		Logout(ctx context.Context) error
		Me(ctx context.Context) (*domain.UserProfile, error)
	}

	Listener func(user *domain.UserProfile)

	// Session holds the signed-in user. Construct one per app and pass it to
	// whatever needs it.
	Session struct {
		auth Auth

		mu          sync.RWMutex
		user        *domain.UserProfile
		loading     bool
		initialized bool
		generation  int
		listeners   map[int]Listener
		nextID      int
	}
)

func New(auth Auth) *Session {
	return &Session{
		auth:      auth,
		loading:   true,
		listeners: make(map[int]Listener),
	}
}

func (s *Session) CurrentUser() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID returns the id of the signed-in user, or "" when signed out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// OnAuthStateChanged registers fn for every sign-in and sign-out. When the
// session is already initialized fn is called once right away. The returned
// func unregisters it.
func (s *Session) OnAuthStateChanged(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	initialized, user := s.initialized, s.user
	s.mu.Unlock()

	if initialized {
		fn(user)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Start restores a previous session. It returns once the restore finishes or
// timeout elapses, whichever comes first; either way the session is then
// initialized. A restore that completes after the timeout still applies,
// unless the user signed in or out in the meantime.
func (s *Session) Start(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultInitTimeout
	}
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		user, err := s.auth.Me(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNotSignedIn) {
				log.Warnf("session: restore failed: %v", err)
			}
			user = nil
		}
		s.apply(gen, user)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		log.Warnf("session: restore did not finish within %s", timeout)
		s.markInitialized()
	case <-ctx.Done():
		s.markInitialized()
		return ctx.Err()
	}
	return nil
}

func (s *Session) SignInWithEmail(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	return s.signIn("sign in", func() (*domain.AuthResponse, error) {
		return s.auth.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	})
}

func (s *Session) RegisterWithEmail(ctx context.Context, email, password, displayName string) (*domain.UserProfile, error) {
	return s.signIn("register", func() (*domain.AuthResponse, error) {
		return s.auth.Register(ctx, domain.RegisterRequest{Email: email, Password: password, DisplayName: displayName})
	})
}

func (s *Session) SignInWithOAuth(ctx context.Context, provider, idToken string) (*domain.UserProfile, error) {
	return s.signIn("oauth sign in", func() (*domain.AuthResponse, error) {
		return s.auth.OAuthLogin(ctx, domain.OAuthLoginRequest{Provider: provider, IDToken: idToken})
	})
}

// SignOut always leaves the session signed out, even when the backend call
// fails.
func (s *Session) SignOut(ctx context.Context) error {
	s.setLoading(true)
	err := s.auth.Logout(ctx)
	s.change(nil)
	if err != nil {
		return &AuthError{Op: "sign out", Err: err}
	}
	return nil
}

func (s *Session) signIn(op string, call func() (*domain.AuthResponse, error)) (*domain.UserProfile, error) {
	s.setLoading(true)
	res, err := call()
	if err != nil {
		s.setLoading(false)
		return nil, &AuthError{Op: op, Err: err}
	}
	user := res.User
	s.change(&user)
	return s.CurrentUser(), nil
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// markInitialized ends the initial loading state without a restored user and
// tells listeners. It does nothing when a restore or sign-in got there first.
func (s *Session) markInitialized() {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.initialized = true
	user, listeners := s.user, s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}

func (s *Session) snapshotListeners() []Listener {
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return listeners
}

// apply stores a restored user unless an explicit sign-in or sign-out
// happened since generation gen.
func (s *Session) apply(gen int, user *domain.UserProfile) {
	s.set(user, func() bool { return s.generation == gen })
}

func (s *Session) change(user *domain.UserProfile) {
	s.set(user, func() bool {
		s.generation++
		return true
	})
}

// set stores user when accept, run under the lock, returns true, then
// notifies listeners outside the lock.
func (s *Session) set(user *domain.UserProfile, accept func() bool) {
	s.mu.Lock()
	if !accept() {
		s.mu.Unlock()
		return
	}
	s.user = user
	s.loading = false
	s.initialized = true
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
