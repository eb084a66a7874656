package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
)

var (
	ErrMissingCredentials = errors.New("service: email and password are required")
	ErrMissingArtistName  = errors.New("service: artist name is required")
	ErrInvalidToken       = errors.New("service: invalid or expired token")
)

// Claims is the payload of a dashboard session token.
type Claims struct {
	Email      string `json:"email"`
	ArtistName string `json:"artist_name"`
	jwt.RegisteredClaims
}

// Session is what a successful login or registration hands back.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

// Sessions proxies credentials to the auth backend and issues HS256 tokens
// for the artists it accepts.
type Sessions struct {
	auth   ports.Authenticator
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(auth ports.Authenticator, secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{auth: auth, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Sessions) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}
	u, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return Session{}, fmt.Errorf("service: login: %w", err)
	}
	return s.issue(u)
}

func (s *Sessions) Register(ctx context.Context, email, password, artistName string) (Session, error) {
	email = strings.TrimSpace(email)
	artistName = strings.TrimSpace(artistName)
	if email == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}
	if artistName == "" {
		return Session{}, ErrMissingArtistName
	}
	u, err := s.auth.Register(ctx, email, password, artistName)
	if err != nil {
		return Session{}, fmt.Errorf("service: register: %w", err)
	}
	return s.issue(u)
}

func (s *Sessions) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return ErrMissingCredentials
	}
	if err := s.auth.ResetPassword(ctx, email, newPassword); err != nil {
		return fmt.Errorf("service: reset password: %w", err)
	}
	return nil
}

func (s *Sessions) issue(u domain.User) (Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email:      u.Email,
		ArtistName: u.ArtistName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("service: sign token: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Verify parses a bearer token and returns the artist it was issued to.
func (s *Sessions) Verify(token string) (domain.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return domain.User{}, ErrInvalidToken
	}
	return domain.User{ID: claims.Subject, Email: claims.Email, ArtistName: claims.ArtistName}, nil
}
