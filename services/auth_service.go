// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar: fiyat hesabı, status geçişleri,
// takip mesajı planlaması, ödeme mutabakatı.
//
// Service ASLA http.Request/Response bilmez; sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL çalıştırmaz; repository interface'lerini kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "sentquote"

// AuthService interface'i, dışarıya açık API.
// Handler, middleware ve ws bu interface'e bağımlıdır.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*models.TokenClaims, error)
}

// AuthResult, register/login sonrası dönen token ve kullanıcı.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type authService struct {
	users     repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	hashCost  int
}

// NewAuthService, constructor. expiryDays token ömrüdür (varsayılan 30).
func NewAuthService(users repository.UserRepository, jwtSecret string, expiryDays int) AuthService {
	return &authService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Duration(expiryDays) * 24 * time.Hour,
		hashCost:  12,
	}
}

// Register, yeni hesap oluşturur ve token döner.
// Aynı email ile ikinci kayıt ErrAlreadyExists (409) ile reddedilir.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		Plan:         models.PlanFree,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", pkg.ErrAlreadyExists)
		}
		return nil, err
	}

	return s.result(user)
}

// Login, email + şifre ile giriş. Bilinmeyen email ve yanlış şifre
// aynı mesajı döner; hangisinin yanlış olduğu sızdırılmaz.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	return s.result(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// IssueToken, HS256 imzalı JWT üretir. Refresh token yoktur;
// süre dolunca kullanıcı tekrar giriş yapar.
func (s *authService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken, imzayı, algoritmayı ve süreyi kontrol eder.
func (s *authService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrInvalidToken, tokenFailure(err))
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrInvalidToken)
	}

	return claims, nil
}

func (s *authService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// tokenFailure, jwt hatasını client'a gösterilebilecek kısa nedene indirger.
func tokenFailure(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature invalid"
	default:
		return "malformed token"
	}
}
