// Package auth is the local account provider: email/password sign-up and
// sign-in backed by the store, with a current-user observable.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"HandwritingBoard/internal/store"
)

const (
	MinPasswordLength = 6
	saltLength        = 16
)

var (
	ErrInvalidEmail          = errors.New("auth: invalid email")
	ErrWeakPassword          = errors.New("auth: weak password")
	ErrEmailInUse            = errors.New("auth: email already in use")
	ErrInvalidCredentials    = errors.New("auth: invalid credentials")
	ErrProviderNotConfigured = errors.New("auth: provider not configured")
	ErrNotSignedIn           = errors.New("auth: not signed in")
)

var messages = map[error]string{
	ErrInvalidEmail:          "Please enter a valid email address.",
	ErrWeakPassword:          fmt.Sprintf("Password should be at least %d characters.", MinPasswordLength),
	ErrEmailInUse:            "An account with this email already exists.",
	ErrInvalidCredentials:    "Incorrect email or password.",
	ErrProviderNotConfigured: "Google sign-in is not configured.",
	ErrNotSignedIn:           "You need to sign in first.",
}

// Message turns an auth error into text for the UI.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "Something went wrong. Please try again."
}

// User is the signed-in account.
type User struct {
	UID         string
	Email       string
	DisplayName string
}

// Store is the persistence the provider needs.
type Store interface {
	UpsertUser(ctx context.Context, u store.User) error
	GetUser(ctx context.Context, uid string) (*store.User, error)
	UpdateDisplayName(ctx context.Context, uid, name string) error
	SaveCredential(ctx context.Context, c store.Credential) error
	CredentialByEmail(ctx context.Context, email string) (*store.Credential, error)
	SetSession(ctx context.Context, uid string) error
	Session(ctx context.Context) (string, error)
	ClearSession(ctx context.Context) error
}

type Provider struct {
	store  Store
	logger *slog.Logger

	mu        sync.Mutex
	current   *User
	listeners map[int]func(*User)
	nextID    int
}

func New(s Store, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{store: s, logger: logger, listeners: make(map[int]func(*User))}
}

// Restore signs the remembered user back in, if there is one.
func (p *Provider) Restore(ctx context.Context) error {
	uid, err := p.store.Session(ctx)
	if err != nil || uid == "" {
		return err
	}
	u, err := p.store.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	if u == nil {
		return p.store.ClearSession(ctx)
	}
	p.setCurrent(&User{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName})
	return nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	existing, err := p.store.CredentialByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	u := &User{UID: uuid.NewString(), Email: email, DisplayName: DisplayName("", email)}
	if err := p.store.UpsertUser(ctx, store.User{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		LastLogin:   time.Now(),
	}); err != nil {
		return nil, err
	}
	if err := p.store.SaveCredential(ctx, store.Credential{
		UID:   u.UID,
		Email: email,
		Salt:  salt,
		Hash:  hashPassword(password, salt),
	}); err != nil {
		return nil, err
	}

	p.logger.Info("account created", "uid", u.UID)
	return u, p.signedIn(ctx, u)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	cred, err := p.store.CredentialByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		// same work as a wrong password so unknown emails are not revealed by timing
		_ = hashPassword(password, make([]byte, saltLength))
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare(hashPassword(password, cred.Salt), cred.Hash) != 1 {
		p.logger.Warn("sign-in rejected", "uid", cred.UID)
		return nil, ErrInvalidCredentials
	}

	stored, err := p.store.GetUser(ctx, cred.UID)
	if err != nil {
		return nil, err
	}
	u := &User{UID: cred.UID, Email: cred.Email}
	if stored != nil {
		u.DisplayName = stored.DisplayName
	}
	u.DisplayName = DisplayName(u.DisplayName, u.Email)
	if err := p.store.UpsertUser(ctx, store.User{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		LastLogin:   time.Now(),
	}); err != nil {
		return nil, err
	}
	return u, p.signedIn(ctx, u)
}

// SignInWithGoogle always fails; there is no OAuth client in a desktop build.
func (p *Provider) SignInWithGoogle(context.Context) (*User, error) {
	return nil, ErrProviderNotConfigured
}

func (p *Provider) LogOut(ctx context.Context) error {
	if err := p.store.ClearSession(ctx); err != nil {
		return err
	}
	p.setCurrent(nil)
	return nil
}

// UpdateProfile changes the signed-in user's display name.
func (p *Provider) UpdateProfile(ctx context.Context, displayName string) error {
	cur := p.CurrentUser()
	if cur == nil {
		return ErrNotSignedIn
	}
	name := DisplayName(strings.TrimSpace(displayName), cur.Email)
	if err := p.store.UpdateDisplayName(ctx, cur.UID, name); err != nil {
		return err
	}
	next := *cur
	next.DisplayName = name
	p.setCurrent(&next)
	return nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (p *Provider) CurrentUser() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	u := *p.current
	return &u
}

// OnAuthStateChanged calls fn now with the current user and again after every
// sign-in, sign-out and profile change. The returned func unsubscribes.
func (p *Provider) OnAuthStateChanged(fn func(*User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	fn(p.CurrentUser())

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) signedIn(ctx context.Context, u *User) error {
	if err := p.store.SetSession(ctx, u.UID); err != nil {
		return err
	}
	p.setCurrent(u)
	return nil
}

func (p *Provider) setCurrent(u *User) {
	p.mu.Lock()
	p.current = u
	fns := make([]func(*User), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(p.CurrentUser())
	}
}

// DisplayName picks name, else the local part of email, else "User".
func DisplayName(name, email string) string {
	if name != "" {
		return name
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

func hashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
