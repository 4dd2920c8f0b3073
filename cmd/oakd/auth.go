package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// demoUser is the daemon's in-memory stand-in for server/dao.User: just
// enough fields for bearer-token auth, with no persistence of its own since
// the spec.md non-goal on tree persistence extends naturally to not wanting
// a user database either.
type demoUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string // base64 is unnecessary here; bcrypt hashes are stored raw
	LastLogout   time.Time
}

// ErrBadCredentials is returned by userStore.login when the username or
// password does not match, grounded on server/serr.ErrBadCredentials.
var ErrBadCredentials = errors.New("bad credentials")

// ErrUserNotFound is returned by userStore lookups, grounded on
// server/dao.ErrNotFound.
var ErrUserNotFound = errors.New("user not found")

// userStore is a concurrency-safe in-memory replacement for
// server/dao.UserRepository: oakd exists to demonstrate bearer-token-guarded
// parsing, not to be a real identity provider.
type userStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]demoUser
	byUsr map[string]uuid.UUID
}

func newUserStore() *userStore {
	return &userStore{
		byID:  make(map[uuid.UUID]demoUser),
		byUsr: make(map[string]uuid.UUID),
	}
}

// createUser hashes password with bcrypt, grounded on tunas.Service.CreateUser.
func (s *userStore) createUser(username, password string) (demoUser, error) {
	if username == "" || password == "" {
		return demoUser{}, fmt.Errorf("username and password must not be blank")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return demoUser{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return demoUser{}, fmt.Errorf("generate user id: %w", err)
	}

	u := demoUser{ID: id, Username: username, PasswordHash: string(hash)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byUsr[username]; exists {
		return demoUser{}, fmt.Errorf("user %q already exists", username)
	}
	s.byID[id] = u
	s.byUsr[username] = id
	return u, nil
}

// login is grounded on tunas.Service.Login's lookup-then-bcrypt-compare flow.
func (s *userStore) login(username, password string) (demoUser, error) {
	s.mu.RLock()
	id, ok := s.byUsr[username]
	if !ok {
		s.mu.RUnlock()
		return demoUser{}, ErrBadCredentials
	}
	u := s.byID[id]
	s.mu.RUnlock()

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return demoUser{}, ErrBadCredentials
	}
	return u, nil
}

func (s *userStore) getByID(id uuid.UUID) (demoUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return demoUser{}, ErrUserNotFound
	}
	return u, nil
}

// jwtIssuer is the "iss" claim oakd mints and checks, grounded on
// server/token.go's "tqs" issuer constant.
const jwtIssuer = "oakd"

// generateToken mints an HS512 JWT whose signing key is derived from the
// daemon secret plus the user's own password hash and last-logout time, so
// that changing a password or logging out invalidates every previously
// issued token without needing a revocation list. Grounded on
// server.generateJWT / server/token.go's generateJWT.
func generateToken(secret []byte, u demoUser) (string, error) {
	claims := jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": u.ID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signingKey(secret, u))
}

func signingKey(secret []byte, u demoUser) []byte {
	key := append([]byte{}, secret...)
	key = append(key, []byte(u.PasswordHash)...)
	key = append(key, []byte(fmt.Sprintf("%d", u.LastLogout.Unix()))...)
	return key
}

// validateToken is grounded on server/token.go's validateAndLookupJWTUser:
// the key function looks up the claimed subject before it can report the
// correct signing key, so a stale or forged subject fails before any
// signature check can even run.
func validateToken(ctx context.Context, tok string, secret []byte, users *userStore) (demoUser, error) {
	var u demoUser

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("no subject claim: %w", err)
		}
		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("subject is not a UUID: %w", err)
		}
		u, err = users.getByID(id)
		if err != nil {
			return nil, fmt.Errorf("subject does not exist")
		}
		return signingKey(secret, u), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return demoUser{}, err
	}
	return u, nil
}

func bearerToken(req *http.Request) (string, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return "", fmt.Errorf("no Authorization header present")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("Authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// authUserKey is the context key an auth middleware stores the logged-in
// demoUser under, grounded on server/middle.AuthUser.
type authCtxKey int

const authUserKey authCtxKey = 0

// requireAuth is grounded on server/middle.AuthHandler with required=true:
// requests with a missing or invalid bearer token are rejected with a
// delay before any downstream handler runs, to deprioritize brute-forcing.
func requireAuth(users *userStore, secret []byte, unauthDelay time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := bearerToken(req)
			if err != nil {
				time.Sleep(unauthDelay)
				jsonUnauthorized(err.Error()).writeResponse(w, req, log)
				return
			}

			u, err := validateToken(req.Context(), tok, secret, users)
			if err != nil {
				time.Sleep(unauthDelay)
				jsonUnauthorized(err.Error()).writeResponse(w, req, log)
				return
			}

			ctx := context.WithValue(req.Context(), authUserKey, u)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func userFromContext(ctx context.Context) demoUser {
	u, _ := ctx.Value(authUserKey).(demoUser)
	return u
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// epLogin is grounded on server.epCreateLogin: validate the body, look the
// user up, mint a token on success.
func epLogin(users *userStore, secret []byte) func(*http.Request) Result {
	return func(req *http.Request) Result {
		var body loginRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return jsonBadRequest("malformed JSON body: " + err.Error())
		}
		if body.Username == "" {
			return jsonBadRequest("username: property is empty or missing from request")
		}
		if body.Password == "" {
			return jsonBadRequest("password: property is empty or missing from request")
		}

		u, err := users.login(body.Username, body.Password)
		if err != nil {
			return jsonUnauthorized(fmt.Sprintf("user %q: %s", body.Username, err.Error()))
		}

		tok, err := generateToken(secret, u)
		if err != nil {
			return jsonInternalServerError("could not generate token: " + err.Error())
		}

		return jsonCreated(loginResponse{Token: tok, UserID: u.ID.String()}, "user "+u.Username+" logged in")
	}
}
