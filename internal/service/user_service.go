package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feira-hub/internal/domain"
	"feira-hub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// MinPasswordLength applies to registration and password changes
	MinPasswordLength = 8
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("role must be consumer or producer")
	ErrStoreNameRequired  = errors.New("store name is required for producers")
	ErrPasswordTooShort   = errors.New("password must have at least 8 characters")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrProducerNotFound   = errors.New("producer not found")
)

// RegisterInput carries a registration request. StoreName is required for
// producers and ignored for consumers.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.Role
	Phone     string
	City      string
	Address   string
	StoreName string
}

// ProducerPublicInfo is the public profile of a producer
type ProducerPublicInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	StoreName string    `json:"store_name"`
	AvatarURL string    `json:"avatar_url"`
}

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *domain.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetPublicProducerInfo(ctx context.Context, producerID uuid.UUID) (*ProducerPublicInfo, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type userService struct {
	userRepo     repository.UserRepository
	storeRepo    repository.StoreRepository
	credentials  CredentialVerifier
	jwtSecret    string
	accessExpiry time.Duration
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	credentials CredentialVerifier,
	jwtSecret string,
	accessExpiry time.Duration,
) UserService {
	return &userService{
		userRepo:     userRepo,
		storeRepo:    storeRepo,
		credentials:  credentials,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

// Register creates a new account. Producers additionally get their store
// created and linked: user insert, store insert, then the store back-link on
// the user. The three writes are sequential; a crash between them leaves a
// producer without a store link, recoverable by re-running registration
// support tooling.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role == domain.RoleProducer && input.StoreName == "" {
		return nil, ErrStoreNameRequired
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && err != repository.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := s.credentials.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
		Phone:        input.Phone,
		City:         input.City,
		Address:      input.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if input.Role == domain.RoleProducer {
		store := &domain.Store{
			ID:        uuid.New(),
			Name:      input.StoreName,
			OwnerID:   user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.storeRepo.Create(ctx, store); err != nil {
			return nil, err
		}
		if err := s.userRepo.SetStoreID(ctx, user.ID, store.ID); err != nil {
			return nil, fmt.Errorf("failed to link store to producer: %w", err)
		}
		user.StoreID = &store.ID
	}

	return user, nil
}

// Login authenticates a user and returns a JWT access token
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.credentials.Verify(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, user, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// GetPublicProducerInfo returns the public profile of a producer, including
// the resolved store name
func (s *userService) GetPublicProducerInfo(ctx context.Context, producerID uuid.UUID) (*ProducerPublicInfo, error) {
	user, err := s.userRepo.FindByID(ctx, producerID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, ErrProducerNotFound
		}
		return nil, fmt.Errorf("failed to find producer: %w", err)
	}
	if user.Role != domain.RoleProducer {
		return nil, ErrProducerNotFound
	}

	info := &ProducerPublicInfo{
		ID:        user.ID,
		Name:      user.Name,
		City:      user.City,
		AvatarURL: user.AvatarURL,
	}

	if user.StoreID != nil {
		store, err := s.storeRepo.FindByID(ctx, *user.StoreID)
		if err != nil && err != repository.ErrStoreNotFound {
			return nil, fmt.Errorf("failed to resolve producer store: %w", err)
		}
		if store != nil {
			info.StoreName = store.Name
		}
	}

	return info, nil
}

// UpdateAvatar replaces the user's avatar URL and returns the updated profile
func (s *userService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*domain.User, error) {
	if err := s.userRepo.UpdateAvatarURL(ctx, userID, avatarURL); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

// UpdatePassword verifies the current password before storing the new hash
func (s *userService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.credentials.Verify(user.PasswordHash, currentPassword); err != nil {
		return ErrWrongPassword
	}

	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	newHash, err := s.credentials.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	return s.userRepo.UpdatePasswordHash(ctx, userID, newHash)
}

// generateAccessToken generates a JWT access token with user ID and role claims
func (s *userService) generateAccessToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.accessExpiry)
	claims := &Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
