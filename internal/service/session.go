package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionTTL bounds every session to 24 hours of inactivity. The window is
// sliding: each authenticated hit refreshes it.
const SessionTTL = 24 * time.Hour

// Session is the server-side state behind one client token.
type Session struct {
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionStore persists sessions keyed by token.
type SessionStore interface {
	Get(ctx context.Context, token string) (*Session, error)
	Set(ctx context.Context, token string, session *Session) error
	Delete(ctx context.Context, token string) error
}

// redisSessionStore keeps sessions in Redis with a TTL.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) key(token string) string {
	return "session:" + token
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Sliding expiry: reading a live session refreshes its window.
	s.client.Expire(ctx, s.key(token), s.ttl)

	return &session, nil
}

func (s *redisSessionStore) Set(ctx context.Context, token string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// memorySessionStore is the fallback when Redis is not configured. Fine for a
// single process; sessions do not survive restarts.
type memorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memorySession
}

type memorySession struct {
	session   Session
	expiresAt time.Time
}

// NewMemorySessionStore creates an in-process session store.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]memorySession),
	}
}

func (s *memorySessionStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return nil, nil
	}

	entry.expiresAt = time.Now().Add(s.ttl)
	s.sessions[token] = entry

	session := entry.session
	return &session, nil
}

func (s *memorySessionStore) Set(_ context.Context, token string, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{session: *session, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// SessionService gates mutating routes behind a single application password.
type SessionService struct {
	store        SessionStore
	secret       []byte
	password     string
	passwordHash string
	logger       *zap.Logger
}

// NewSessionService creates a SessionService. password is compared verbatim;
// when passwordHash is non-empty it takes precedence and is checked with
// bcrypt. secret signs the session cookie value.
func NewSessionService(store SessionStore, secret, password, passwordHash string, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:        store,
		secret:       []byte(secret),
		password:     password,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

// Login checks the supplied password and, on success, creates an
// authenticated session and returns the signed cookie value.
func (s *SessionService) Login(ctx context.Context, password string) (string, error) {
	if !s.checkPassword(password) {
		return "", ErrUnauthorized
	}

	token := uuid.New().String()
	session := &Session{Authenticated: true, CreatedAt: time.Now()}
	if err := s.store.Set(ctx, token, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session authenticated", zap.String("token", token[:8]))
	return s.signToken(token), nil
}

// IsAuthenticated reports whether cookieValue names a live authenticated
// session. A tampered signature, unknown token, or expired session all read
// as unauthenticated; store failures do too, closed by default.
func (s *SessionService) IsAuthenticated(ctx context.Context, cookieValue string) bool {
	token, ok := s.verifyToken(cookieValue)
	if !ok {
		return false
	}

	session, err := s.store.Get(ctx, token)
	if err != nil {
		s.logger.Warn("session lookup failed", zap.Error(err))
		return false
	}
	return session != nil && session.Authenticated
}

// Logout destroys the session behind cookieValue.
func (s *SessionService) Logout(ctx context.Context, cookieValue string) error {
	token, ok := s.verifyToken(cookieValue)
	if !ok {
		return nil
	}
	return s.store.Delete(ctx, token)
}

func (s *SessionService) checkPassword(password string) bool {
	if password == "" {
		return false
	}
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

// signToken produces "token.signature" so a forged token is rejected without
// a store lookup.
func (s *SessionService) signToken(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *SessionService) verifyToken(cookieValue string) (string, bool) {
	token, _, found := strings.Cut(cookieValue, ".")
	if !found || token == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(s.signToken(token)), []byte(cookieValue)) != 1 {
		return "", false
	}
	return token, true
}
