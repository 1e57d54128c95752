package utils // package utils provides helpers for token creation and Telegram login verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminator stored in the "typ" claim. An access token
// can never be replayed against the refresh endpoint and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails parsing,
// signature verification, expiry or claim checks. The reason is
// deliberately not distinguished to the caller.
var ErrInvalidToken = errors.New("invalid token")

// TokenPair bundles a freshly issued access/refresh token pair along
// with the expiry instants. Both tokens are HS256 JWTs carrying the
// member's internal id and Telegram id; only the TTL and the "typ"
// claim differ.
type TokenPair struct {
	Access     string    // serialized access JWT
	AccessExp  time.Time // UTC expiration of the access token
	Refresh    string    // serialized refresh JWT
	RefreshExp time.Time // UTC expiration of the refresh token
}

// Claims is the decoded, validated content of a token issued by this
// service.
type Claims struct {
	MemberID   string // internal member UUID (sub)
	TelegramID int64  // Telegram user id (tid)
	Role       string // MEMBER or ADMIN
	Type       string // access or refresh
}

// NewTokenPair builds and signs an access/refresh pair for a member.
// Access tokens live for accessTTLMin minutes, refresh tokens for
// refreshTTLDays days.
func NewTokenPair(secret, memberID string, telegramID int64, role string, accessTTLMin, refreshTTLDays int) (TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(time.Duration(accessTTLMin) * time.Minute)
	refreshExp := now.Add(time.Duration(refreshTTLDays) * 24 * time.Hour)

	access, err := sign(secret, memberID, telegramID, role, TokenTypeAccess, now, accessExp)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(secret, memberID, telegramID, role, TokenTypeRefresh, now, refreshExp)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, AccessExp: accessExp, Refresh: refresh, RefreshExp: refreshExp}, nil
}

func sign(secret, memberID string, telegramID int64, role, typ string, iat, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  memberID,
		"tid":  telegramID,
		"role": role,
		"typ":  typ,
		"iat":  iat.Unix(),
		"exp":  exp.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the decoded
// claims. Callers must additionally check Claims.Type against the
// token type they expect.
func ParseToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	if c.MemberID, ok = mc["sub"].(string); !ok || c.MemberID == "" {
		return Claims{}, ErrInvalidToken
	}
	if c.Type, ok = mc["typ"].(string); !ok {
		return Claims{}, ErrInvalidToken
	}
	c.Role, _ = mc["role"].(string)
	// JSON numbers decode as float64.
	if tid, ok := mc["tid"].(float64); ok {
		c.TelegramID = int64(tid)
	}
	return c, nil
}
