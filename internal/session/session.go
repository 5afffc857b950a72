// Package session owns the signed-in credential.
//
// A Store is created once at startup, loaded from disk, and handed to every
// reader. Only Login and Logout change it; both persist the change before
// returning.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/folio/internal/access"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/library"
)

// Session is the persisted credential. Role and Name are only meaningful
// while Token is set.
type Session struct {
	Token string      `toml:"token"`
	Role  access.Role `toml:"role"`
	Name  string      `toml:"name"`
	Email string      `toml:"email"`
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Subject returns the access subject for the session. An authenticated
// session without a role claim is treated as a Member.
func (s Session) Subject() access.Subject {
	if !s.Authenticated() {
		return access.Guest
	}
	role := s.Role
	if role == access.RoleNone {
		role = access.RoleMember
	}
	return access.Subject{Authenticated: true, Role: role}
}

// Store guards the current session and its file.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Session
}

// Ensure Store can authorize library requests.
var _ library.TokenSource = (*Store)(nil)

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	logger *slog.Logger
}

// WithLogger reports session files that exist but cannot be used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = logger
	}
}

// Open loads the session stored at path. A missing or unreadable file yields
// a signed-out store; an unreadable one is logged as a warning. An empty path
// keeps the session in memory only.
func Open(path string, opts ...Option) (*Store, error) {
	o := openOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{}
	if strings.TrimSpace(path) == "" {
		return s, nil
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	s.path = resolved
	sess, err := load(resolved)
	if err != nil {
		o.logger.Warn("ignoring unusable session file", "path", resolved, "error", err)
	}
	s.current = sess
	return s, nil
}

// load reads a stored session. A missing file is a signed-out session, not
// an error.
func load(path string) (Session, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("open session file: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Session{}, fmt.Errorf("read session file: %w", err)
	}
	var sess Session
	if err := toml.Unmarshal(bytes, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session file: %w", err)
	}
	if !sess.Authenticated() {
		return Session{}, nil
	}
	sess.Role = access.ParseRole(string(sess.Role))
	return sess, nil
}

// Path returns the session file location, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the current session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token implements library.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Subject returns the access subject for the current session.
func (s *Store) Subject() access.Subject {
	return s.Current().Subject()
}

// Login stores the credential from a successful login or registration.
func (s *Store) Login(resp library.LoginResponse) (Session, error) {
	token := strings.TrimSpace(resp.Token)
	if token == "" {
		return Session{}, fmt.Errorf("login response carried no token")
	}
	next := Session{
		Token: token,
		Role:  ResolveRole(resp),
	}
	if resp.User != nil {
		next.Name = resp.User.DisplayName()
		next.Email = strings.TrimSpace(resp.User.Email)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(next); err != nil {
		return Session{}, err
	}
	s.current = next
	return next, nil
}

// Logout clears the session and removes its file. The in-memory session is
// cleared even when the file cannot be removed.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Store) persist(next Session) error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}
