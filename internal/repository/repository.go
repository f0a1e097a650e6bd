package repository

import (
	"errors"
	"strings"
	"sync"

	"mergington/activities/internal/crypto"
	"mergington/activities/internal/model"
)

var (
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("already signed up")
	ErrNotSignedUp      = errors.New("not signed up")
)

// Store aggregates the in-memory stores. Each store guards its own map, so
// concurrent request handlers never observe a torn mutation.
type Store struct {
	Users      *UserStore
	Sessions   *SessionStore
	Activities *ActivityStore
}

func NewStore() *Store {
	return &Store{
		Users:      &UserStore{users: make(map[string]model.User)},
		Sessions:   &SessionStore{sessions: make(map[string]string)},
		Activities: &ActivityStore{activities: make(map[string]*model.Activity)},
	}
}

type UserStore struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// Create stores a new user keyed by the lower-cased email. Users are never
// deleted or updated.
func (s *UserStore) Create(user model.User) error {
	key := strings.ToLower(user.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return ErrUserExists
	}
	s.users[key] = user
	return nil
}

func (s *UserStore) GetByEmail(email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

// SessionStore maps opaque bearer tokens to owner emails. Sessions have no
// expiry; they live until Destroy.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

// Create issues a fresh token bound to email. Every call issues a new token,
// so one user may hold several live sessions at once.
func (s *SessionStore) Create(email string) (string, error) {
	token, err := crypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = email
	return token, nil
}

func (s *SessionStore) Resolve(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.sessions[token]
	return email, ok
}

// Destroy removes the token if present and reports whether it existed.
// Destroying an absent token is not an error.
func (s *SessionStore) Destroy(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}
