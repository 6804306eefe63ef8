package service

import (
	"time"

	"authd/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the wire-stable claim set carried by every signed token.
type TokenClaims struct {
	Type   string   `json:"type"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

type TokenServiceConfig struct {
	AppName         string
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenService is the sole authority for minting and verifying tokens. It
// performs no database access.
type TokenService struct {
	config TokenServiceConfig
}

func NewTokenService(config TokenServiceConfig) *TokenService {
	return &TokenService{
		config: config,
	}
}

func (ts *TokenService) ttl(tokenType config.TokenType) time.Duration {
	if tokenType == config.TokenTypeRefresh {
		return ts.config.RefreshTokenTTL
	}
	return ts.config.AccessTokenTTL
}

// Mint signs a token for subject with HMAC-SHA256 and the process-wide
// application secret.
func (ts *TokenService) Mint(subject string, tokenType config.TokenType, scopes []string) (string, error) {
	return ts.MintWithSecret(subject, tokenType, scopes, ts.config.Secret)
}

func (ts *TokenService) MintWithSecret(subject string, tokenType config.TokenType, scopes []string, secret string) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		Type:   string(tokenType),
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.config.AppName,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl(tokenType))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", NewTokenError("Failed to sign token")
	}

	return signed, nil
}

// MintPair mints an access and a refresh token for the same subject and
// scope set.
func (ts *TokenService) MintPair(subject string, scopes []string) (string, string, error) {
	access, err := ts.Mint(subject, config.TokenTypeAccess, scopes)
	if err != nil {
		return "", "", err
	}

	refresh, err := ts.Mint(subject, config.TokenTypeRefresh, scopes)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Verify checks the signature, issuer, expiry and subject of a token and
// returns its claims. When requiredType is non-empty, the token type claim
// must match as well.
func (ts *TokenService) Verify(token string, requiredType config.TokenType) (*TokenClaims, error) {
	return ts.VerifyWithSecret(token, requiredType, ts.config.Secret)
}

func (ts *TokenService) VerifyWithSecret(token string, requiredType config.TokenType, secret string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(ts.config.AppName),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	if err != nil || !parsed.Valid {
		return nil, NewTokenError("Invalid token")
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return nil, NewTokenError("Invalid token")
	}

	if claims.Subject == "" {
		return nil, NewTokenError("Invalid token")
	}

	if requiredType != "" && claims.Type != string(requiredType) {
		return nil, NewTokenError("Invalid token type")
	}

	return claims, nil
}

// Scopes decodes the scope list of a verified token.
func (ts *TokenService) Scopes(token string) ([]string, error) {
	claims, err := ts.Verify(token, "")
	if err != nil {
		return nil, err
	}
	return claims.Scopes, nil
}
