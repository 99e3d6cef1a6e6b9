package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/config"
	"github.com/photoshare/backend/internal/db"
	"github.com/photoshare/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	AuthCookieName   = "auth_token"
	LegacyCookieName = "jwt"

	// TokenTTL is fixed; a token is never renewed without a new login.
	TokenTTL = 7 * 24 * time.Hour

	devJWTSecret       = "photoshare-dev-secret-change-in-production"
	maxLoginNameLength = 64
	maxPasswordLength  = 72
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByLoginName(ctx context.Context, loginName string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
}

// LoginLockout tracks failed logins per login_name.
type LoginLockout interface {
	Locked(ctx context.Context, loginName string) (bool, error)
	RecordFailure(ctx context.Context, loginName string) error
	Clear(ctx context.Context, loginName string) error
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

type AuthService struct {
	repo        UserRepo
	lockout     LoginLockout
	jwtSecret   []byte
	allowSignup bool
	cookieCfg   CookieConfig
	hashCost    int
	now         func() time.Time
	logger      *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

type sessionClaims struct {
	UserID    string `json:"id"`
	LoginName string `json:"login_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func NewAuthService(repo UserRepo, cfg config.AuthConfig, production bool) (*AuthService, error) {
	logger := slog.Default().With("module", "auth")

	secret := cfg.JWTSecret
	if strings.TrimSpace(secret) == "" {
		if production {
			return nil, fmt.Errorf("%w: JWT_SECRET is required in production", ErrMisconfigured)
		}
		logger.Warn("JWT_SECRET not set, using development default secret")
		secret = devJWTSecret
	}

	allowSignup, err := parseBool(cfg.AllowSignup, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ALLOW_SIGNUP", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		repo:        repo,
		jwtSecret:   []byte(secret),
		allowSignup: allowSignup,
		cookieCfg: CookieConfig{
			Name:     AuthCookieName,
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
			MaxAge:   int(TokenTTL.Seconds()),
		},
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// SetLockout enables failed-login lockout. A nil lockout disables it.
func (s *AuthService) SetLockout(lockout LoginLockout) {
	s.lockout = lockout
}

func (s *AuthService) AllowSignup() bool {
	return s.allowSignup
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

func (s *AuthService) EnsureAdmin(ctx context.Context, loginName, password string) error {
	if strings.TrimSpace(loginName) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: ADMIN_USERNAME/ADMIN_PASSWORD are required", ErrMisconfigured)
	}

	_, err := s.repo.GetUserByLoginName(ctx, loginName)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	_, err = s.createUser(ctx, model.RegisterRequest{
		LoginName: loginName,
		Password:  password,
		FirstName: "Admin",
		LastName:  "User",
	}, true)
	if err != nil {
		return err
	}
	s.logger.Info("admin user created", "login_name", loginName)
	return nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if !s.allowSignup {
		return nil, ErrForbidden
	}
	return s.createUser(ctx, req, false)
}

func (s *AuthService) createUser(ctx context.Context, req model.RegisterRequest, isAdmin bool) (*model.User, error) {
	user := &model.User{
		ID:          uuid.New(),
		LoginName:   strings.TrimSpace(req.LoginName),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Occupation:  strings.TrimSpace(req.Occupation),
		IsAdmin:     isAdmin,
	}
	if err := validateRegistration(user, req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// UpdateProfile edits the profile fields of userID. Only that user or an admin
// may do so. Tokens already issued keep the old names until the next login.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *model.AuthContext, userID uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if actor.ID != userID && !actor.IsAdmin {
		return nil, ErrForbidden
	}

	user := &model.User{
		ID:          userID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Occupation:  strings.TrimSpace(req.Occupation),
	}
	switch {
	case user.FirstName == "":
		return nil, fmt.Errorf("%w: first_name must be a non-empty string", ErrValidation)
	case user.LastName == "":
		return nil, fmt.Errorf("%w: last_name must be a non-empty string", ErrValidation)
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", updated.ID, "by", actor.ID)
	return updated, nil
}

// Authenticate checks a login_name/password pair. Unknown names and wrong
// passwords both return ErrInvalidCredentials after a bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, loginName, password string) (*model.User, error) {
	if loginName == "" || password == "" {
		return nil, fmt.Errorf("%w: login_name and password are required", ErrValidation)
	}

	if s.lockout != nil {
		locked, err := s.lockout.Locked(ctx, loginName)
		if err != nil {
			s.logger.Warn("lockout lookup failed", "error", err)
		} else if locked {
			return nil, ErrTooManyAttempts
		}
	}

	// bcrypt ignores bytes past 72, so a longer password could match a
	// stored one by prefix alone.
	if len(password) > maxPasswordLength {
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password[:maxPasswordLength]))
		s.recordFailure(ctx, loginName)
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByLoginName(ctx, loginName)
	if err != nil {
		if !db.IsNoRows(err) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
		s.recordFailure(ctx, loginName)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, loginName)
		return nil, ErrInvalidCredentials
	}

	if s.lockout != nil {
		if err := s.lockout.Clear(ctx, loginName); err != nil {
			s.logger.Warn("lockout clear failed", "error", err)
		}
	}
	return user, nil
}

// Login authenticates and issues a session token for the user.
func (s *AuthService) Login(ctx context.Context, loginName, password string) (*model.User, string, error) {
	user, err := s.Authenticate(ctx, loginName, password)
	if err != nil {
		return nil, "", err
	}

	token, _, err := s.Issue(user)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("login succeeded", "user_id", user.ID, "login_name", user.LoginName)
	return user, token, nil
}

// Issue signs a session token for an already authenticated user.
func (s *AuthService) Issue(user *model.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(TokenTTL)
	claims := sessionClaims{
		UserID:    user.ID.String(),
		LoginName: user.LoginName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify decodes a raw token. The embedded claims are trusted as-is; no
// database lookup happens here.
func (s *AuthService) Verify(raw string) (*model.AuthContext, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrUnauthenticated
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.AuthContext{
		ID:        userID,
		LoginName: claims.LoginName,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		IsAdmin:   claims.IsAdmin,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, loginName string) {
	if s.lockout == nil {
		return
	}
	if err := s.lockout.RecordFailure(ctx, loginName); err != nil {
		s.logger.Warn("lockout record failed", "error", err)
	}
}

func (s *AuthService) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.hashCost)
		if err != nil {
			s.logger.Error("dummy hash generation failed", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func validateRegistration(user *model.User, password string) error {
	switch {
	case user.LoginName == "":
		return fmt.Errorf("%w: login_name must be a non-empty string", ErrValidation)
	case len(user.LoginName) > maxLoginNameLength:
		return fmt.Errorf("%w: login_name is too long", ErrValidation)
	case strings.TrimSpace(password) == "":
		return fmt.Errorf("%w: password must be a non-empty string", ErrValidation)
	case len(password) > maxPasswordLength:
		return fmt.Errorf("%w: password is too long", ErrValidation)
	case user.FirstName == "":
		return fmt.Errorf("%w: first_name must be a non-empty string", ErrValidation)
	case user.LastName == "":
		return fmt.Errorf("%w: last_name must be a non-empty string", ErrValidation)
	}
	return nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrValidation
	}
}
