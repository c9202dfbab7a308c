package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/config"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/middleware"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// AuthService issues JWT access tokens and tracks refresh tokens in redis,
// so a logout or rotation invalidates the refresh token server side.
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *entity.User `json:"user"`
}

func refreshKey(token string) string {
	return "auth:refresh:" + token
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Status != "active" {
		return nil, apierror.Forbidden("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized("invalid username or password")
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.New().String()
	if err := s.rdb.Set(ctx, refreshKey(refresh), user.ID, s.cfg.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
		User:         user,
	}, nil
}

// Refresh rotates the refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.rdb.Get(ctx, refreshKey(refreshToken)).Result()
	if err == redis.Nil {
		return nil, apierror.Unauthorized("refresh token expired or revoked")
	}
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.Unauthorized("account no longer exists")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Status != "active" {
		return nil, apierror.Forbidden("account is disabled")
	}

	if err := s.rdb.Del(ctx, refreshKey(refreshToken)).Err(); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, refreshKey(refreshToken)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// CurrentUser loads the account behind an authenticated session.
func (s *AuthService) CurrentUser(userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.Unauthorized("account no longer exists")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (s *AuthService) Register(req RegisterRequest) (*entity.User, error) {
	if _, err := s.userRepo.GetByUsername(req.Username); err == nil {
		return nil, apierror.DuplicateEntry("username %s is taken", req.Username)
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	role := req.Role
	if role == "" {
		role = entity.RoleSales
	}
	switch role {
	case entity.RoleAdmin, entity.RoleWarehouseIncharge, entity.RoleSales:
	default:
		return nil, apierror.Validation("invalid role %q", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
