package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultIdentityURL is the hosted identity REST endpoint.
const DefaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"

// Identity implements Provider against the hosted identity REST API.
type Identity struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	current *Session
	nextID  int
	subs    map[int]func(*Session)
}

// IdentityOption configures an Identity.
type IdentityOption func(*Identity)

// WithBaseURL points the provider at a different identity endpoint.
func WithBaseURL(baseURL string) IdentityOption {
	return func(i *Identity) {
		if baseURL != "" {
			i.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) IdentityOption {
	return func(i *Identity) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithSession restores a persisted session.
func WithSession(s *Session) IdentityOption {
	return func(i *Identity) {
		if s != nil && s.IDToken != "" {
			restored := *s
			i.current = &restored
		}
	}
}

// NewIdentity builds an identity-backed Provider for the project API key.
func NewIdentity(apiKey string, opts ...IdentityOption) *Identity {
	i := &Identity{
		baseURL:    DefaultIdentityURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
		now:        time.Now,
		subs:       make(map[int]func(*Session)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type tokenResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

// SignUp creates the account, sends a verification email, and leaves the
// user signed out until the address is verified.
func (i *Identity) SignUp(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	var tok tokenResponse
	err := i.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &tok)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	err = i.call(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     tok.IDToken,
	}, nil)
	if err != nil {
		return fmt.Errorf("send verification: %w", err)
	}
	i.logger.Info("account created, verification sent", zap.String("email", email))
	i.setCurrent(nil)
	return nil
}

// SignIn authenticates and rejects accounts whose email is not verified.
func (i *Identity) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	var tok tokenResponse
	err := i.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &tok)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	session := i.sessionFromToken(tok)
	if !session.EmailVerified {
		verified, err := i.lookupVerified(ctx, tok.IDToken)
		if err != nil {
			return nil, fmt.Errorf("sign in: %w", err)
		}
		session.EmailVerified = verified
	}
	if !session.EmailVerified {
		i.setCurrent(nil)
		return nil, ErrEmailNotVerified
	}

	i.logger.Info("signed in", zap.String("uid", session.UID))
	i.setCurrent(session)
	return session, nil
}

// SignOut drops the current session.
func (i *Identity) SignOut(_ context.Context) error {
	i.setCurrent(nil)
	return nil
}

// Current returns a copy of the signed-in session, or nil.
func (i *Identity) Current() *Session {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return nil
	}
	s := *i.current
	return &s
}

// Subscribe registers fn for session changes and calls it once with the
// current state.
func (i *Identity) Subscribe(fn func(*Session)) func() {
	i.mu.Lock()
	id := i.nextID
	i.nextID++
	i.subs[id] = fn
	i.mu.Unlock()

	fn(i.Current())
	return func() {
		i.mu.Lock()
		delete(i.subs, id)
		i.mu.Unlock()
	}
}

// UpdateEmail changes the signed-in account's email.
func (i *Identity) UpdateEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingCredentials
	}
	return i.update(ctx, map[string]any{"email": email})
}

// UpdatePassword changes the signed-in account's password.
func (i *Identity) UpdatePassword(ctx context.Context, password string) error {
	if password == "" {
		return ErrMissingCredentials
	}
	return i.update(ctx, map[string]any{"password": password})
}

func (i *Identity) update(ctx context.Context, fields map[string]any) error {
	cur := i.Current()
	if cur == nil {
		return ErrNotSignedIn
	}
	fields["idToken"] = cur.IDToken
	fields["returnSecureToken"] = true

	var tok tokenResponse
	if err := i.call(ctx, "accounts:update", fields, &tok); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	next := *cur
	if tok.IDToken != "" {
		refreshed := i.sessionFromToken(tok)
		next.IDToken = refreshed.IDToken
		next.RefreshToken = refreshed.RefreshToken
		next.ExpiresAt = refreshed.ExpiresAt
	}
	if tok.Email != "" {
		next.Email = tok.Email
	}
	i.setCurrent(&next)
	return nil
}

func (i *Identity) lookupVerified(ctx context.Context, idToken string) (bool, error) {
	var resp lookupResponse
	if err := i.call(ctx, "accounts:lookup", map[string]any{"idToken": idToken}, &resp); err != nil {
		return false, err
	}
	if len(resp.Users) == 0 {
		return false, nil
	}
	return resp.Users[0].EmailVerified, nil
}

func (i *Identity) sessionFromToken(tok tokenResponse) *Session {
	s := &Session{
		UID:          tok.LocalID,
		Email:        tok.Email,
		IDToken:      tok.IDToken,
		RefreshToken: tok.RefreshToken,
	}
	if secs, err := strconv.Atoi(tok.ExpiresIn); err == nil && secs > 0 {
		s.ExpiresAt = i.now().Add(time.Duration(secs) * time.Second)
	}

	// The identity service is the authority; claims are read, not verified.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.IDToken, claims); err == nil {
		if verified, ok := claims["email_verified"].(bool); ok {
			s.EmailVerified = verified
		}
		if s.UID == "" {
			s.UID, _ = claims.GetSubject()
		}
		if s.ExpiresAt.IsZero() {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				s.ExpiresAt = exp.Time
			}
		}
	}
	return s
}

func (i *Identity) setCurrent(s *Session) {
	i.mu.Lock()
	i.current = s
	subs := make([]func(*Session), 0, len(i.subs))
	for _, fn := range i.subs {
		subs = append(subs, fn)
	}
	i.mu.Unlock()

	for _, fn := range subs {
		fn(i.Current())
	}
}

func (i *Identity) call(ctx context.Context, method string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s?key=%s", i.baseURL, method, url.QueryEscape(i.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return identityError(resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func identityError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("%s", friendlyMessage(envelope.Error.Message))
	}
	return fmt.Errorf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
}

func friendlyMessage(code string) string {
	base, _, _ := strings.Cut(code, " : ")
	switch base {
	case "EMAIL_EXISTS":
		return "an account with this email already exists"
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return "invalid email or password"
	case "USER_DISABLED":
		return "this account has been disabled"
	case "WEAK_PASSWORD":
		return "password should be at least 6 characters"
	case "INVALID_EMAIL":
		return "invalid email address"
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "too many attempts, try again later"
	case "CREDENTIAL_TOO_OLD_LOGIN_AGAIN", "TOKEN_EXPIRED", "INVALID_ID_TOKEN":
		return "session expired, log in again"
	}
	return code
}
