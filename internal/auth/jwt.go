package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baharkarakas/blog-backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access    string
	Refresh   string
	ExpiresIn int64 // seconds until the access token expires
}

// GeneratePair signs an access and a refresh token for the principal.
func (tm *TokenManager) GeneratePair(p models.Principal) (Pair, error) {
	now := tm.now()
	access, err := tm.sign(p, TypeAccess, now, tm.accessTTL, tm.accessSecret)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := tm.sign(p, TypeRefresh, now, tm.refreshTTL, tm.refreshSecret)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh, ExpiresIn: int64(tm.accessTTL / time.Second)}, nil
}

func (tm *TokenManager) sign(p models.Principal, typ string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		UserID:   p.ID,
		Username: p.Username,
		Role:     string(p.Role),
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return s, nil
}

func (tm *TokenManager) ParseAccess(token string) (*Claims, error) {
	return tm.parse(token, TypeAccess, tm.accessSecret)
}

func (tm *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return tm.parse(token, TypeRefresh, tm.refreshSecret)
}

// parse rejects tokens signed with another key, algorithm or issuer, expired
// tokens, and tokens of the other type.
func (tm *TokenManager) parse(token, typ string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != typ || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
