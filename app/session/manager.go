package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maplewood-records/app/identity"
	"maplewood-records/app/models"
)

// idTokenLifetime is how long Firebase ID tokens stay valid. Sessions older
// than this get their token refreshed on the next request.
const idTokenLifetime = 55 * time.Minute

// Gateway verifies credentials and mints tokens.
type Gateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error)
	RefreshIDToken(ctx context.Context, refreshToken string) (*identity.RefreshResult, error)
}

// Directory maps an authenticated user to role and assignment.
type Directory interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// Manager owns the session lifecycle: sign-in, per-request lookup with
// expiry and token refresh, sign-out.
type Manager struct {
	gateway   Gateway
	directory Directory
	store     *Store
	secret    []byte
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewManager(gateway Gateway, directory Directory, secret []byte, ttl time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		gateway:   gateway,
		directory: directory,
		store:     NewStore(),
		secret:    secret,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// SignIn verifies credentials with the gateway, resolves the user's role and
// assignment from the directory, and persists a new session. Nothing is
// stored on any failure path.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	res, err := m.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := m.directory.GetUser(ctx, res.UID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess := &models.Session{
		ID:               uuid.NewString(),
		UID:              user.UID,
		IDToken:          res.IDToken,
		RefreshToken:     res.RefreshToken,
		Role:             user.Role,
		AssignedClass:    user.AssignedClass,
		AssignedSection:  user.AssignedSection,
		CreatedAt:        now,
		ExpiresAt:        now.Add(m.ttl),
		TokenRefreshedAt: now,
	}
	m.store.Put(sess)
	m.log.Info("session created",
		zap.String("uid", sess.UID),
		zap.String("role", string(sess.Role)))
	return sess, nil
}

// Token returns the signed client token for a session.
func (m *Manager) Token(sess *models.Session) (string, error) {
	return signToken(m.secret, sess.ID, sess.ExpiresAt)
}

// Current resolves a client token to its live session. Returns nil for a
// missing, tampered, unknown or expired token; expired sessions are removed
// on observation. A stale ID token is refreshed in place when the session
// still has a refresh token; failure to refresh invalidates the session.
func (m *Manager) Current(ctx context.Context, tokenString string) *models.Session {
	if tokenString == "" {
		return nil
	}
	id, err := parseToken(m.secret, tokenString)
	if err != nil {
		return nil
	}
	sess, ok := m.store.Get(id)
	if !ok {
		return nil
	}

	now := m.now()
	if sess.Expired(now) {
		m.store.Delete(id)
		return nil
	}

	if now.Sub(sess.TokenRefreshedAt) >= idTokenLifetime && sess.RefreshToken != "" {
		res, err := m.gateway.RefreshIDToken(ctx, sess.RefreshToken)
		if err != nil {
			m.log.Warn("token refresh failed, dropping session",
				zap.String("uid", sess.UID), zap.Error(err))
			m.store.Delete(id)
			return nil
		}
		// Sessions are immutable once stored: parallel requests with the
		// same cookie may both reach this branch, so the refreshed state
		// goes into a copy that replaces the stored one.
		refreshed := *sess
		refreshed.IDToken = res.IDToken
		if res.RefreshToken != "" {
			refreshed.RefreshToken = res.RefreshToken
		}
		refreshed.TokenRefreshedAt = now
		m.store.Put(&refreshed)
		return &refreshed
	}
	return sess
}

// SignOut destroys the session behind a client token. Calling it with no
// active session is not an error.
func (m *Manager) SignOut(tokenString string) {
	if tokenString == "" {
		return
	}
	id, err := parseToken(m.secret, tokenString)
	if err != nil {
		return
	}
	m.store.Delete(id)
}
