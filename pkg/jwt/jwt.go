package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenNotYetValid     = errors.New("token not yet valid")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrInvalidKey           = errors.New("invalid key")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// keyInfo binds derived keys to this token format.
const keyInfo = "job-portal session token v1"

// reservedClaims are owned by the service and never taken from the caller.
var reservedClaims = []string{"iss", "iat", "nbf", "exp"}

// Claims represents the payload of a session token.
//
// Identity is the caller-supplied payload. It is flattened into the top level
// of the JSON object next to the registered claims, so a token issued for
// {"email":"a@x.com"} carries {"email":"a@x.com","iss":...,"exp":...}.
type Claims struct {
	Issuer    string
	IssuedAt  int64
	NotBefore int64
	ExpiresAt int64

	Identity map[string]any
}

// Email returns the identity's email claim, or "" if absent.
func (c *Claims) Email() string {
	if c == nil || c.Identity == nil {
		return ""
	}
	email, _ := c.Identity["email"].(string)
	return email
}

// Valid checks the time-based claims against now
func (c *Claims) Valid(now time.Time) error {
	ts := now.Unix()

	if c.ExpiresAt != 0 && ts >= c.ExpiresAt {
		return ErrTokenExpired
	}

	if c.NotBefore != 0 && ts < c.NotBefore {
		return ErrTokenNotYetValid
	}

	return nil
}

type registeredClaims struct {
	Issuer    string `json:"iss,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// MarshalJSON flattens the identity and the registered claims into one object.
func (c Claims) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Identity)+len(reservedClaims))
	for k, v := range c.Identity {
		out[k] = v
	}
	for _, k := range reservedClaims {
		delete(out, k)
	}

	if c.Issuer != "" {
		out["iss"] = c.Issuer
	}
	if c.IssuedAt != 0 {
		out["iat"] = c.IssuedAt
	}
	if c.NotBefore != 0 {
		out["nbf"] = c.NotBefore
	}
	if c.ExpiresAt != 0 {
		out["exp"] = c.ExpiresAt
	}

	return json.Marshal(out)
}

// UnmarshalJSON splits a flat claims object back into registered claims and identity.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var reg registeredClaims
	if err := json.Unmarshal(data, &reg); err != nil {
		return err
	}

	var identity map[string]any
	if err := json.Unmarshal(data, &identity); err != nil {
		return err
	}
	for _, k := range reservedClaims {
		delete(identity, k)
	}

	c.Issuer = reg.Issuer
	c.IssuedAt = reg.IssuedAt
	c.NotBefore = reg.NotBefore
	c.ExpiresAt = reg.ExpiresAt
	c.Identity = identity
	return nil
}

// Service handles session token operations
type Service struct {
	key        []byte
	issuer     string
	expiration time.Duration
	clock      clockwork.Clock
}

// Config holds session token service configuration
type Config struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
	Clock      clockwork.Clock // defaults to the real clock
}

// NewService creates a new token service. The HMAC key is derived from
// Secret with HKDF-SHA256.
func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrInvalidKey
	}
	if cfg.Expiration <= 0 {
		return nil, fmt.Errorf("expiration must be positive, got %s", cfg.Expiration)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	key, err := deriveKey(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return &Service{
		key:        key,
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
		clock:      cfg.Clock,
	}, nil
}

// Sign creates a signed token. Registered claims are always set by the
// service; any values supplied by the caller are overwritten.
func (s *Service) Sign(claims Claims) (string, error) {
	now := s.clock.Now()

	claims.Issuer = s.issuer
	claims.IssuedAt = now.Unix()
	claims.NotBefore = now.Unix()
	claims.ExpiresAt = now.Add(s.expiration).Unix()

	header := map[string]string{
		"alg": "HS256",
		"typ": "JWT",
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	message := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return message + "." + base64URLEncode(s.mac(message)), nil
}

// Validate validates a token and returns its claims
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	headerB64, claimsB64, signatureB64 := parts[0], parts[1], parts[2]

	headerJSON, err := base64URLDecode(headerB64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, ErrInvalidToken
	}
	if header.Alg != "HS256" {
		return nil, ErrUnsupportedAlgorithm
	}

	signature, err := base64URLDecode(signatureB64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal(signature, s.mac(headerB64+"."+claimsB64)) {
		return nil, ErrInvalidSignature
	}

	claimsJSON, err := base64URLDecode(claimsB64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if err := claims.Valid(s.clock.Now()); err != nil {
		return nil, err
	}

	if claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

// GetExpiration returns the token lifetime
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}

func (s *Service) mac(message string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(message))
	return h.Sum(nil)
}

func deriveKey(secret string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
