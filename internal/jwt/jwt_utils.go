package jwtUtils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-jwt/jwt/v5/request"
)

const (
	// Issuer is the issuer of the jwt token.
	Issuer = "useradmin"
	// KeyID names the signing key. Only v1 exists; the kid header keeps room
	// for rotating the signing mechanism later.
	KeyID = "v1"
	// AccessTokenAudienceName is the audience name of the access token.
	AccessTokenAudienceName = "user.access-token"
	AccessTokenDuration     = 24 * time.Hour
)

var (
	ErrJWTValidate          = errors.New("failed to validate jwt token")
	ErrJWTUserIDNotFound    = errors.New("user id not found/malformed in token")
	ErrJWTSessionIDNotFound = errors.New("session id not found/malformed in token")
)

type ClaimsMessage struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// HasBearerToken reports whether the request carries an Authorization header at all.
func HasBearerToken(req *http.Request) bool {
	return req.Header.Get("Authorization") != ""
}

// ValidateAccessToken parses and verifies the bearer token of req.
func ValidateAccessToken(req *http.Request, secret string) (*jwt.Token, *ClaimsMessage, error) {
	extractor := request.AuthorizationHeaderExtractor
	keyFunc := func(t *jwt.Token) (any, error) {
		if kid, ok := t.Header["kid"].(string); ok && kid == KeyID {
			return []byte(secret), nil
		}
		return nil, fmt.Errorf("unexpected access token kid=%v", t.Header["kid"])
	}

	// Pinning the algorithm prevents attacks such as
	// https://auth0.com/blog/critical-vulnerabilities-in-json-web-token-libraries/.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(AccessTokenAudienceName),
		jwt.WithExpirationRequired(),
	)

	claims := new(ClaimsMessage)
	token, err := request.ParseFromRequest(req, extractor, keyFunc,
		request.WithClaims(claims),
		request.WithParser(parser),
	)
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

func GetUserIDFromToken(token *jwt.Token) (int64, error) {
	userID, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}

	parsedUserID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return 0, err
	}
	return parsedUserID, nil
}

// GetSessionIDFromClaims returns the session the token was issued for. The
// session id travels in the jti claim.
func GetSessionIDFromClaims(claims *ClaimsMessage) (int64, error) {
	if claims == nil || claims.ID == "" {
		return 0, ErrJWTSessionIDNotFound
	}
	sessionID, err := strconv.ParseInt(claims.ID, 10, 64)
	if err != nil || sessionID <= 0 {
		return 0, ErrJWTSessionIDNotFound
	}
	return sessionID, nil
}

// GenerateAccessToken generates an access token bound to sessionID. The
// token stops resolving once that session is revoked.
func GenerateAccessToken(email, role string, userID, sessionID int64, secret []byte, now time.Time) (string, error) {
	return generateToken(email, role, userID, sessionID, AccessTokenAudienceName, secret, now)
}

// generateToken generates a jwt token.
func generateToken(email, role string, userID, sessionID int64, audience string, secret []byte, now time.Time) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
		Subject:   fmt.Sprint(userID),
		ID:        strconv.FormatInt(sessionID, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Email:            email,
		Role:             role,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = KeyID

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
