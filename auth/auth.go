package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"

	"roombook/config"
	"roombook/db"
	"roombook/models"

	"github.com/gorilla/sessions"
)

var Store *sessions.CookieStore

func InitStore() {
	// Derive two 32-byte keys from the configured session key: one for
	// signing (HMAC), one for cookie content encryption (AES).
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   config.AppConfig.ListenPort != 8080, // Default to true unless dev port
		SameSite: http.SameSiteLaxMode,
	}
}

const SessionName = "roombook-session"

// CurrentUser returns the logged-in username and role, or "" when the
// request carries no valid session.
func CurrentUser(r *http.Request) (username, role string) {
	session, _ := Store.Get(r, SessionName)
	username, _ = session.Values["username"].(string)
	role, _ = session.Values["role"].(string)
	return username, role
}

func SetSession(w http.ResponseWriter, r *http.Request, username, role string) {
	session, _ := Store.Get(r, SessionName)
	session.Values["username"] = username
	session.Values["role"] = role
	session.Save(r, w)
}

// ClearSession drops the identity but keeps the cookie alive so the
// "signed out" flash survives the redirect to the login page.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	delete(session.Values, "username")
	delete(session.Values, "role")
	session.Save(r, w)
}

// Flash queues a one-shot message shown on the next rendered page.
func Flash(w http.ResponseWriter, r *http.Request, msg string) {
	session, _ := Store.Get(r, SessionName)
	session.AddFlash(msg)
	session.Save(r, w)
}

// Flashes drains the queued messages.
func Flashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := Store.Get(r, SessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save(r, w)
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// CanModify is the edit/update/delete authorization rule: admins may
// touch any booking, everyone else only their own.
func CanModify(actor, role, owner string) bool {
	return role == "admin" || owner == actor
}

var ErrBadCredentials = errors.New("invalid username or password")

// Authenticator resolves a username/password pair to a user. Two
// implementations exist: the persisted users table and a fixed
// in-process table for tests and single-binary setups.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// DBSource authenticates against the users table.
type DBSource struct {
	db *sql.DB
}

func NewDBSource(database *sql.DB) *DBSource {
	return &DBSource{db: database}
}

func (s *DBSource) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)

	// Always run the hash comparison so a missing user costs the same
	// as a wrong password.
	targetHash := u.PasswordHash
	if err != nil {
		targetHash = dummyHash
	}
	match := db.CheckPasswordHash(password, targetHash)

	if err != nil || !match {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to
// equalize timing when the username does not exist.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// StaticSource is the fixed in-process credential table. Lookups are
// exact string matches.
type StaticSource struct {
	users map[string]models.User // username -> user; PasswordHash holds the plain password
}

func NewStaticSource(users []models.User) *StaticSource {
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[u.Username] = u
	}
	return &StaticSource{users: m}
}

func (s *StaticSource) Authenticate(_ context.Context, username, password string) (models.User, error) {
	u, ok := s.users[username]
	if !ok || subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(password)) != 1 {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}
