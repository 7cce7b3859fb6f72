package service

import (
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrOIDCDisabled         = errors.New("OIDC login is not configured")
	ErrOIDCExchangeFailed   = errors.New("failed to exchange or verify the authorization code")
	ErrUserNotFound         = errors.New("user not found")
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, displayName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// LoginWithOIDC exchanges an authorization code with the configured
	// provider, verifies the ID token, and finds or creates the matching
	// user. Profile fields are refreshed from the claims on every login.
	LoginWithOIDC(ctx context.Context, code string) (token string, user *domain.User, err error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, displayName *string, unit *domain.WeightUnit) (*domain.User, error)
}

// --- Service Implementation ---

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration

	// OIDC is optional; all three are nil when no issuer is configured.
	oidcVerifier *oidc.IDTokenVerifier
	oauthConfig  *oauth2.Config
}

// NewAuthService creates a new instance of authService. When oidcCfg has an
// issuer URL the provider is discovered eagerly so misconfiguration fails
// at startup rather than on the first login.
func NewAuthService(ctx context.Context, userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, oidcCfg config.OIDCConfig) (AuthService, error) {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 24
	}

	s := &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}

	if oidcCfg.IssuerURL != "" {
		provider, err := oidc.NewProvider(ctx, oidcCfg.IssuerURL)
		if err != nil {
			return nil, err
		}
		s.oidcVerifier = provider.Verifier(&oidc.Config{ClientID: oidcCfg.ClientID})
		s.oauthConfig = &oauth2.Config{
			ClientID:     oidcCfg.ClientID,
			ClientSecret: oidcCfg.ClientSecret,
			RedirectURL:  oidcCfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}
	}

	return s, nil
}

// Register handles password-based account creation.
func (s *authService) Register(ctx context.Context, displayName, email, password string) (*domain.User, error) {
	if displayName == "" || email == "" || password == "" {
		return nil, errors.New("display name, email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		DisplayName:         displayName,
		Email:               email,
		PasswordHash:        string(hashedPassword),
		PreferredWeightUnit: domain.WeightUnitLbs,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index on email is the backstop for a concurrent
		// registration between the check and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Login handles password authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	// OIDC-only accounts have no password hash.
	if user.PasswordHash == "" {
		return "", nil, ErrAuthenticationFailed
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) LoginWithOIDC(ctx context.Context, code string) (string, *domain.User, error) {
	if s.oauthConfig == nil {
		return "", nil, ErrOIDCDisabled
	}

	oauthToken, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("OIDC code exchange failed: %v", err)
		return "", nil, ErrOIDCExchangeFailed
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return "", nil, ErrOIDCExchangeFailed
	}

	idToken, err := s.oidcVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Printf("OIDC token verification failed: %v", err)
		return "", nil, ErrOIDCExchangeFailed
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", nil, ErrOIDCExchangeFailed
	}

	user, err := s.findOrCreateUser(ctx, idToken.Subject, claims.Email, claims.Name)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// findOrCreateUser resolves the account for an OIDC subject. First login
// creates the user; subsequent logins refresh email and display name from
// the provider's claims.
func (s *authService) findOrCreateUser(ctx context.Context, subject, email, name string) (*domain.User, error) {
	user, err := s.userRepo.GetBySubject(ctx, subject)
	if err == nil {
		changed := false
		if email != "" && user.Email != email {
			user.Email = email
			changed = true
		}
		if name != "" && user.DisplayName != name {
			user.DisplayName = name
			changed = true
		}
		if changed {
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if name == "" {
		name = email
	}
	user = &domain.User{
		Email:               email,
		DisplayName:         name,
		Subject:             &subject,
		PreferredWeightUnit: domain.WeightUnitLbs,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("Created new user from OIDC login: %s (%s)", user.Email, user.ID)
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName *string, unit *domain.WeightUnit) (*domain.User, error) {
	if displayName == nil && unit == nil {
		return nil, &domain.FieldError{Field: "body", Message: "at least one of displayName, preferredWeightUnit must be supplied"}
	}
	if displayName != nil && *displayName == "" {
		return nil, &domain.FieldError{Field: "displayName", Message: "cannot be empty"}
	}
	if unit != nil && !domain.ValidPreferredWeightUnit(*unit) {
		return nil, &domain.FieldError{Field: "preferredWeightUnit", Message: "must be one of lbs, kg"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if displayName != nil {
		user.DisplayName = *displayName
	}
	if unit != nil {
		user.PreferredWeightUnit = *unit
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "workout-tracker",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
