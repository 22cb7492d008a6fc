package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

const minPasswordLength = 8

// LoginLimiter abstracts the failed-attempt throttle (Redis).
type LoginLimiter interface {
	TooManyAttempts(ctx context.Context, email, ip string) (bool, error)
	RecordFailure(ctx context.Context, email, ip string) error
	Reset(ctx context.Context, email, ip string) error
}

// AuthService implements registration, credential and OAuth login, and
// session token issuance/resolution.
type AuthService struct {
	repo      ports.IdentityRepository
	limiter   LoginLimiter // optional
	jwtSecret string
	maxAge    time.Duration
	updateAge time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, limiter LoginLimiter, jwtSecret string, maxAge, updateAge time.Duration, log zerolog.Logger) *AuthService {
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	if updateAge <= 0 {
		updateAge = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		maxAge:    maxAge,
		updateAge: updateAge,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, identity, string(hash))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("identity registered")
	return created, nil
}

// Login verifies credentials and issues a session token. "User not found"
// and "wrong password" are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (string, *domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		locked, err := s.limiter.TooManyAttempts(ctx, email, clientIP)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if locked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	cred, err := s.repo.FindCredential(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email, clientIP)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email, clientIP)
		return "", nil, domain.ErrInvalidCredentials
	}

	// The session always binds to the persisted record's id.
	identity, err := s.repo.FindByID(ctx, cred.IdentityID)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email, clientIP); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.issue(identity)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", identity.ID).Str("method", domain.MethodCredentials).Msg("login succeeded")
	return token, identity, nil
}

// OAuthSignIn binds a provider identity to the local identity store and
// issues a session token. An existing identity with the same normalized
// email is reused (never duplicated); its name/image are re-synced from the
// provider on every sign-in.
func (s *AuthService) OAuthSignIn(ctx context.Context, info ports.OAuthUserInfo) (string, *domain.Identity, error) {
	email := domain.NormalizeEmail(info.Email)
	if email == "" || info.ProviderID == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if uerr := s.repo.UpdateProfile(ctx, identity.ID, info.Name, info.Image); uerr != nil {
			s.log.Warn().Err(uerr).Str("user_id", identity.ID).Msg("profile re-sync failed")
		} else {
			identity.Name = info.Name
			identity.Image = info.Image
		}
	case errors.Is(err, domain.ErrUserNotFound):
		now := time.Now().UTC()
		identity, err = s.repo.Create(ctx, &domain.Identity{
			ID:        info.ProviderID,
			Email:     email,
			Name:      info.Name,
			Image:     info.Image,
			CreatedAt: now,
			UpdatedAt: now,
		}, "")
		if errors.Is(err, domain.ErrUserExists) {
			// Lost a create race; bind to whoever won.
			identity, err = s.repo.FindByEmail(ctx, email)
		}
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, err
	}

	token, err := s.issue(identity)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", identity.ID).Str("provider", info.Provider).Msg("oauth sign-in")
	return token, identity, nil
}

// Resolve validates a session token and returns the bound identity. Fails
// closed: a token whose subject no longer resolves is invalid.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrSessionInvalid
	}

	identity, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}
	return identity, nil
}

// Refresh re-issues a token once its age exceeds the update window,
// re-syncing name/image from the identity store. Inside the window the input
// token is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	iat, _ := claims["iat"].(float64)
	if time.Since(time.Unix(int64(iat), 0)) < s.updateAge {
		return token, nil
	}

	sub, _ := claims["sub"].(string)
	identity, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		return "", domain.ErrSessionInvalid
	}
	return s.issue(identity)
}

func (s *AuthService) issue(identity *domain.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     identity.ID,
		"email":   identity.Email,
		"name":    identity.Name,
		"picture": identity.Image,
		"iat":     now.Unix(),
		"exp":     now.Add(s.maxAge).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parse(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrSessionInvalid
	}
	return claims, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email, ip string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email, ip); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}
