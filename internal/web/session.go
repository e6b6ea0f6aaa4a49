// Package web provides the HTTP server and JSON API for Ratify.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/ratifyhq/ratify/internal/db"
)

const (
	sessionCookieName    = "session_id"
	sessionTTL           = 24 * time.Hour
	sessionSweepInterval = time.Hour
)

// Session represents an authenticated user session. It carries both the
// internal user id (rating ownership) and the Spotify id (like ownership).
type Session struct {
	ID          string
	Token       *oauth2.Token
	UserID      string
	SpotifyID   string
	DisplayName string
	CreatedAt   time.Time
}

// SessionManager defines the interface for session management.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, user *db.User) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
	GetFromRequest(r *http.Request) *Session
	SetCookie(w http.ResponseWriter, session *Session)
	ClearCookie(w http.ResponseWriter)
}

// ============================================================================
// In-Memory Session Store (for development/testing)
// ============================================================================

// SessionStore manages user sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create generates a new session for the given token and user.
func (s *SessionStore) Create(_ context.Context, token *oauth2.Token, user *db.User) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          id,
		Token:       token,
		UserID:      user.ID,
		SpotifyID:   user.SpotifyID,
		DisplayName: user.DisplayName,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}

	// Check if session has expired
	if time.Since(session.CreatedAt) > sessionTTL {
		return nil
	}

	return session
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(r.Context(), cookie.Value)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// ClearCookie removes the session cookie from the response.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// ============================================================================
// Database-Backed Session Store
// ============================================================================

// TokenRefresher exchanges an expired OAuth token for a fresh one.
// *spotifyauth.Authenticator satisfies it.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// sessionTokenUpdater persists refreshed OAuth tokens for a session.
// *db.SessionRepository satisfies it.
type sessionTokenUpdater interface {
	UpdateToken(ctx context.Context, id, accessToken, refreshToken string, expiry time.Time) error
}

// SessionSweeper deletes expired session rows.
// *db.SessionRepository satisfies it.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// DBSessionStore manages user sessions in PostgreSQL.
type DBSessionStore struct {
	database  *db.DB
	refresher TokenRefresher
}

// NewDBSessionStore creates a new database-backed session store. A nil
// refresher disables eager token refresh; expired access tokens are then
// refreshed per request inside the oauth2 transport instead.
func NewDBSessionStore(database *db.DB, refresher TokenRefresher) *DBSessionStore {
	return &DBSessionStore{database: database, refresher: refresher}
}

// Create generates a new session and stores it in the database.
func (s *DBSessionStore) Create(ctx context.Context, token *oauth2.Token, user *db.User) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dbSession := &db.Session{
		ID:           id,
		UserID:       user.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}

	if err := s.database.Sessions().Create(ctx, dbSession); err != nil {
		return nil, err
	}

	return &Session{
		ID:          id,
		Token:       token,
		UserID:      user.ID,
		SpotifyID:   user.SpotifyID,
		DisplayName: user.DisplayName,
		CreatedAt:   now,
	}, nil
}

// Get retrieves a session by ID from the database.
func (s *DBSessionStore) Get(ctx context.Context, id string) *Session {
	dbSession, err := s.database.Sessions().Get(ctx, id)
	if err != nil {
		return nil
	}

	// The session row stores only the user id; join the user for identity.
	user, err := s.database.Users().Get(ctx, dbSession.UserID)
	if err != nil {
		return nil
	}

	token := &oauth2.Token{
		AccessToken:  dbSession.AccessToken,
		RefreshToken: dbSession.RefreshToken,
		Expiry:       dbSession.TokenExpiry,
		TokenType:    "Bearer",
	}
	token = refreshIfExpired(ctx, s.refresher, s.database.Sessions(), dbSession.ID, token)
	if token == nil {
		return nil
	}

	return &Session{
		ID:          dbSession.ID,
		Token:       token,
		UserID:      user.ID,
		SpotifyID:   user.SpotifyID,
		DisplayName: user.DisplayName,
		CreatedAt:   dbSession.CreatedAt,
	}
}

// refreshIfExpired returns a usable token for the session, refreshing and
// persisting it when the stored access token has expired. Returns nil when
// the credential can no longer be refreshed; the caller treats that as no
// session, forcing a fresh login.
func refreshIfExpired(ctx context.Context, refresher TokenRefresher, updater sessionTokenUpdater, sessionID string, token *oauth2.Token) *oauth2.Token {
	if token.Valid() || refresher == nil || token.RefreshToken == "" {
		return token
	}

	refreshed, err := refresher.RefreshToken(ctx, token)
	if err != nil {
		slog.Warn("refreshing session token",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return nil
	}
	// The provider may omit the refresh token on renewal; keep the old one.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = token.RefreshToken
	}

	if err := updater.UpdateToken(ctx, sessionID, refreshed.AccessToken, refreshed.RefreshToken, refreshed.Expiry); err != nil {
		slog.Warn("persisting refreshed token",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
	}
	return refreshed
}

// sweepSessions purges expired session rows immediately and then on every
// tick until the context is cancelled. A failing sweep is logged and retried
// on the next tick.
func sweepSessions(ctx context.Context, sweeper SessionSweeper, interval time.Duration, logger *slog.Logger) {
	sweep := func() {
		n, err := sweeper.DeleteExpired(ctx)
		if err != nil {
			logger.Warn("sweeping expired sessions", slog.String("error", err.Error()))
			return
		}
		if n > 0 {
			logger.Info("purged expired sessions", slog.Int64("count", n))
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// Delete removes a session from the database.
func (s *DBSessionStore) Delete(ctx context.Context, id string) {
	_ = s.database.Sessions().Delete(ctx, id)
}

// GetFromRequest extracts the session from the request cookie.
func (s *DBSessionStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(r.Context(), cookie.Value)
}

// SetCookie sets the session cookie on the response.
func (s *DBSessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// ClearCookie removes the session cookie from the response.
func (s *DBSessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// setCookie sets the session cookie on the response.
func setCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// clearCookie removes the session cookie from the response.
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*SessionStore)(nil)
	_ SessionManager = (*DBSessionStore)(nil)
)
