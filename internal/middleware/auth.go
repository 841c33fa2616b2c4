// Package middleware resolves the requesting user for API routes.
package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// UserID returns the user resolved by DefaultUser or CognitoAuth.Middleware
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// DefaultUser scopes every request to a fixed user. Used when no identity
// provider is configured.
func DefaultUser(userID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

type JWKSResponse struct {
	Keys []JWK `json:"keys"`
}

type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type CognitoJWTClaims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id"`
}

type CognitoConfig struct {
	UserPoolID string
	Region     string
	// ClientID, when set, must match the token's client_id claim
	ClientID string
	// JWKSURL overrides the pool's well-known key set location
	JWKSURL string
}

func (cfg CognitoConfig) issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
}

func (cfg CognitoConfig) jwksURL() string {
	if cfg.JWKSURL != "" {
		return cfg.JWKSURL
	}
	return cfg.issuer() + "/.well-known/jwks.json"
}

// CognitoAuth verifies Cognito access tokens against the pool's JWKS
type CognitoAuth struct {
	cfg           CognitoConfig
	client        *http.Client
	cacheDuration time.Duration

	mu          sync.Mutex
	jwks        *JWKSResponse
	jwksFetched time.Time
}

func NewCognitoAuth(cfg CognitoConfig) *CognitoAuth {
	return &CognitoAuth{
		cfg:           cfg,
		client:        &http.Client{Timeout: 10 * time.Second},
		cacheDuration: time.Hour,
	}
}

// Middleware rejects requests without a valid access token, taken from the
// Authorization header or the access_token cookie.
func (a *CognitoAuth) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, found := bearerToken(c)
			if !found {
				return apperr.New(apperr.Unauthorized)
			}

			claims, err := a.verify(c.Request().Context(), tokenString)
			if err != nil {
				log.Printf("Rejected access token: %v", err)
				return apperr.New(apperr.Unauthorized)
			}

			c.Set(userIDKey, claims.Subject)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		return token, found && token != ""
	}
	cookie, err := c.Cookie("access_token")
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (a *CognitoAuth) verify(ctx context.Context, tokenString string) (*CognitoJWTClaims, error) {
	claims := &CognitoJWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		kid, found := token.Header["kid"].(string)
		if !found {
			return nil, errors.New("kid not found in token header")
		}
		return a.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(a.cfg.issuer()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims.TokenUse != "access" {
		return nil, errors.New("token is not an access token")
	}
	if a.cfg.ClientID != "" && claims.ClientID != a.cfg.ClientID {
		return nil, errors.New("token was issued for another client")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// key finds the public key for kid, refetching the key set once when the
// cached one does not contain it.
func (a *CognitoAuth) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	jwks, err := a.getJWKS(ctx, false)
	if err != nil {
		return nil, err
	}
	if k := findKey(jwks, kid); k != nil {
		return jwkToRSAPublicKey(k)
	}

	jwks, err = a.getJWKS(ctx, true)
	if err != nil {
		return nil, err
	}
	if k := findKey(jwks, kid); k != nil {
		return jwkToRSAPublicKey(k)
	}
	return nil, errors.New("unable to find matching key")
}

func findKey(jwks *JWKSResponse, kid string) *JWK {
	for i := range jwks.Keys {
		if jwks.Keys[i].Kid == kid {
			return &jwks.Keys[i]
		}
	}
	return nil
}

func (a *CognitoAuth) getJWKS(ctx context.Context, refresh bool) (*JWKSResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !refresh && a.jwks != nil && time.Since(a.jwksFetched) < a.cacheDuration {
		return a.jwks, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.jwksURL(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch JWKS: %s", resp.Status)
	}

	var jwks JWKSResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("decode JWKS: %w", err)
	}

	a.jwks = &jwks
	a.jwksFetched = time.Now()
	return &jwks, nil
}

func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	if jwk.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", jwk.Kty)
	}
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, err
	}

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}
