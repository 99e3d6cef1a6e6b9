package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/config"
	"github.com/photoshare/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, cfg config.AuthConfig) (*AuthService, *fakeUserRepo) {
	t.Helper()
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}
	repo := newFakeUserRepo()
	svc, err := NewAuthService(repo, cfg, false)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	svc.hashCost = bcrypt.MinCost
	return svc, repo
}

func registerUser(t *testing.T, svc *AuthService, loginName, password string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), model.RegisterRequest{
		LoginName: loginName,
		Password:  password,
		FirstName: "Alice",
		LastName:  "Liddell",
	})
	if err != nil {
		t.Fatalf("Register(%q): %v", loginName, err)
	}
	return user
}

func TestLoginScenario(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	ctx := context.Background()
	registered := registerUser(t, svc, "alice", "p1")

	user, err := svc.Authenticate(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, expiresAt, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(expiresAt); d < TokenTTL-time.Minute || d > TokenTTL {
		t.Fatalf("expected expiry about 7 days out, got %v", d)
	}

	auth, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if auth.ID != user.ID || auth.LoginName != "alice" || auth.FirstName != "Alice" || auth.LastName != "Liddell" || auth.IsAdmin {
		t.Fatalf("unexpected identity: %+v", auth)
	}
}

func TestAuthenticateDoesNotRevealUnknownLoginName(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	registerUser(t, svc, "alice", "p1")

	_, wrongPassword := svc.Authenticate(context.Background(), "alice", "nope")
	_, unknownUser := svc.Authenticate(context.Background(), "bob", "nope")

	if wrongPassword != unknownUser {
		t.Fatalf("expected identical errors, got %v and %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("expected identical messages")
	}
}

func TestAuthenticateIsCaseSensitive(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	registerUser(t, svc, "alice", "p1")

	if _, err := svc.Authenticate(context.Background(), "Alice", "p1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateRejectsOverlongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	lockout := newFakeLockout(10)
	svc.SetLockout(lockout)
	ctx := context.Background()

	password := strings.Repeat("a", maxPasswordLength)
	registerUser(t, svc, "bob", password)

	if _, err := svc.Authenticate(ctx, "bob", password+"EXTRA"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for password past %d bytes, got %v", maxPasswordLength, err)
	}
	if lockout.failures["bob"] != 1 {
		t.Fatalf("expected the rejected attempt to count as a failure, got %d", lockout.failures["bob"])
	}
	if _, err := svc.Authenticate(ctx, "bob", password); err != nil {
		t.Fatalf("expected exact password to succeed, got %v", err)
	}
}

func TestAuthenticateRequiresBothFields(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})

	cases := []struct {
		name      string
		loginName string
		password  string
	}{
		{name: "empty login", loginName: "", password: "p1"},
		{name: "empty password", loginName: "alice", password: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Authenticate(context.Background(), tc.loginName, tc.password); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	svc, repo := newTestAuthService(t, config.AuthConfig{})
	registerUser(t, svc, "alice", "p1")

	stored, err := repo.GetUserByLoginName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.PasswordHash == "p1" || stored.PasswordHash == "" {
		t.Fatalf("expected bcrypt hash, got %q", stored.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("p1")) != nil {
		t.Fatalf("stored hash does not match password")
	}
}

func TestRegisterRejections(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	registerUser(t, svc, "alice", "p1")

	cases := []struct {
		name string
		req  model.RegisterRequest
		want error
	}{
		{
			name: "duplicate login_name",
			req:  model.RegisterRequest{LoginName: "alice", Password: "x", FirstName: "A", LastName: "B"},
			want: ErrConflict,
		},
		{
			name: "blank login_name",
			req:  model.RegisterRequest{LoginName: "   ", Password: "x", FirstName: "A", LastName: "B"},
			want: ErrValidation,
		},
		{
			name: "blank password",
			req:  model.RegisterRequest{LoginName: "carol", Password: "  ", FirstName: "A", LastName: "B"},
			want: ErrValidation,
		},
		{
			name: "missing last_name",
			req:  model.RegisterRequest{LoginName: "carol", Password: "x", FirstName: "A"},
			want: ErrValidation,
		},
		{
			name: "password over bcrypt limit",
			req:  model.RegisterRequest{LoginName: "carol", Password: strings.Repeat("x", 73), FirstName: "A", LastName: "B"},
			want: ErrValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterDisabled(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{AllowSignup: "false"})
	_, err := svc.Register(context.Background(), model.RegisterRequest{
		LoginName: "alice", Password: "p1", FirstName: "A", LastName: "B",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestVerifyRejections(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	user := registerUser(t, svc, "alice", "p1")

	other, _ := newTestAuthService(t, config.AuthConfig{JWTSecret: "another-secret"})
	foreign, _, err := other.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(-TokenTTL - time.Hour) }
	expired, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	svc.now = time.Now

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":         user.ID.String(),
		"login_name": "alice",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	valid, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: ErrUnauthenticated},
		{name: "garbage", token: "not-a-token", want: ErrInvalidToken},
		{name: "wrong secret", token: foreign, want: ErrInvalidToken},
		{name: "expired", token: expired, want: ErrInvalidToken},
		{name: "alg none", token: unsigned, want: ErrInvalidToken},
		{name: "tampered signature", token: tampered, want: ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Verify(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIssuedTokenPayloadFields(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	user := registerUser(t, svc, "alice", "p1")

	token, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	for _, key := range []string{"id", "login_name", "first_name", "last_name", "is_admin", "exp"} {
		if _, ok := claims[key]; !ok {
			t.Fatalf("payload missing %q: %v", key, claims)
		}
	}
	if claims["id"] != user.ID.String() || claims["login_name"] != "alice" || claims["is_admin"] != false {
		t.Fatalf("unexpected payload: %v", claims)
	}
}

func TestNewAuthServiceSecretPolicy(t *testing.T) {
	repo := newFakeUserRepo()

	if _, err := NewAuthService(repo, config.AuthConfig{}, true); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured in production, got %v", err)
	}

	svc, err := NewAuthService(repo, config.AuthConfig{}, false)
	if err != nil {
		t.Fatalf("expected development fallback, got %v", err)
	}
	token, _, err := svc.Issue(&model.User{LoginName: "dev"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestNewAuthServiceCookieConfig(t *testing.T) {
	repo := newFakeUserRepo()

	if _, err := NewAuthService(repo, config.AuthConfig{JWTSecret: "s", CookieSameSite: "none", CookieSecure: "false"}, false); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for SameSite=None without Secure, got %v", err)
	}

	svc, err := NewAuthService(repo, config.AuthConfig{JWTSecret: "s", CookieSameSite: "strict", CookieSecure: "false"}, false)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	cfg := svc.CookieConfig()
	if cfg.Name != AuthCookieName || cfg.Path != "/" || cfg.Secure || cfg.MaxAge != int(TokenTTL.Seconds()) {
		t.Fatalf("unexpected cookie config: %+v", cfg)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo := newTestAuthService(t, config.AuthConfig{})
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "root", "rootpw"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "root", "ignored"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}

	admin, err := repo.GetUserByLoginName(ctx, "root")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatalf("expected admin flag")
	}

	_, token, err := svc.Login(ctx, "root", "rootpw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	auth, err := svc.Verify(token)
	if err != nil || !auth.IsAdmin {
		t.Fatalf("expected admin identity, got %+v, %v", auth, err)
	}

	if err := svc.EnsureAdmin(ctx, "", ""); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	lockout := newFakeLockout(2)
	svc.SetLockout(lockout)
	ctx := context.Background()
	registerUser(t, svc, "alice", "p1")

	for i := 0; i < 2; i++ {
		if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Authenticate(ctx, "alice", "p1"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	for i := 0; i < 2; i++ {
		_, _ = svc.Authenticate(ctx, "ghost", "x")
	}
	if _, err := svc.Authenticate(ctx, "ghost", "x"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected unknown names to lock out too, got %v", err)
	}
}

func TestLoginClearsFailures(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	lockout := newFakeLockout(3)
	svc.SetLockout(lockout)
	ctx := context.Background()
	registerUser(t, svc, "alice", "p1")

	_, _ = svc.Authenticate(ctx, "alice", "wrong")
	if _, err := svc.Authenticate(ctx, "alice", "p1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if lockout.failures["alice"] != 0 || len(lockout.cleared) != 1 {
		t.Fatalf("expected failures cleared, got %v", lockout.failures)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AuthConfig{})
	ctx := context.Background()
	alice := registerUser(t, svc, "alice", "p1")
	bob := registerUser(t, svc, "bob", "p2")

	self := &model.AuthContext{ID: alice.ID, LoginName: "alice"}
	other := &model.AuthContext{ID: bob.ID, LoginName: "bob"}
	admin := &model.AuthContext{ID: uuid.New(), LoginName: "admin", IsAdmin: true}

	updated, err := svc.UpdateProfile(ctx, self, alice.ID, model.UpdateUserRequest{
		FirstName:  "  Al ",
		LastName:   "Liddell",
		Location:   " Oxford ",
		Occupation: "explorer",
	})
	if err != nil {
		t.Fatalf("UpdateProfile by self: %v", err)
	}
	if updated.FirstName != "Al" || updated.Location != "Oxford" || updated.Occupation != "explorer" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	user, token, err := svc.Login(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.FirstName != "Al" {
		t.Fatalf("expected new first name after login, got %q", user.FirstName)
	}
	auth, err := svc.Verify(token)
	if err != nil || auth.FirstName != "Al" {
		t.Fatalf("expected new first name in fresh token, got %+v (%v)", auth, err)
	}

	if _, err := svc.UpdateProfile(ctx, admin, alice.ID, model.UpdateUserRequest{FirstName: "Alice", LastName: "L"}); err != nil {
		t.Fatalf("UpdateProfile by admin: %v", err)
	}

	cases := []struct {
		name   string
		actor  *model.AuthContext
		userID uuid.UUID
		req    model.UpdateUserRequest
		want   error
	}{
		{name: "no actor", actor: nil, userID: alice.ID, req: model.UpdateUserRequest{FirstName: "A", LastName: "B"}, want: ErrUnauthenticated},
		{name: "other user", actor: other, userID: alice.ID, req: model.UpdateUserRequest{FirstName: "A", LastName: "B"}, want: ErrForbidden},
		{name: "blank first name", actor: self, userID: alice.ID, req: model.UpdateUserRequest{FirstName: "  ", LastName: "B"}, want: ErrValidation},
		{name: "blank last name", actor: self, userID: alice.ID, req: model.UpdateUserRequest{FirstName: "A"}, want: ErrValidation},
		{name: "unknown user", actor: admin, userID: uuid.New(), req: model.UpdateUserRequest{FirstName: "A", LastName: "B"}, want: ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpdateProfile(ctx, tc.actor, tc.userID, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
