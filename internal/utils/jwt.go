package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/panelportal/server/models"
)

// ErrNoAssignmentClaim is returned when a structurally valid token carries
// no "assignment" claim. Such a token grants no access at all.
var ErrNoAssignmentClaim = errors.New("token carries no assignment claim")

// GenerateAccessToken creates a signed HMAC-SHA256 JWT scoped to a single
// assignment.
//
// The token includes the following claims:
//   - Issuer     (iss): identifies the service that issued the token
//   - Subject    (sub): the user ID encoded as a string, for audit
//   - IssuedAt   (iat): the current time
//   - ExpiresAt  (exp): the current time plus tokenDuration
//   - assignment      : the assignment ID the holder is scoped to
//   - user_name       : the display name of the assigned user, for audit
//
// All parameters are required. Returns an error if any of them are empty or
// zero.
func GenerateAccessToken(issuer string, assignment models.UserAssignment, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" || assignment.AssignmentID == 0 {
		return models.Token{}, errors.New("invalid params for generating access token")
	}

	now := time.Now()
	claims := &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(assignment.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		AssignmentID: assignment.AssignmentID,
		UserID:       assignment.UserID,
		UserName:     assignment.UserName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing access token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, AssignmentID: assignment.AssignmentID}, nil
}

// ValidateAndParseAccessToken validates the given JWT string and extracts
// the assignment identifier it is scoped to.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Presence of a non-zero "assignment" claim
//
// Expired tokens surface the underlying jwt.ErrTokenExpired so callers can
// distinguish expiry from tampering with errors.Is.
func ValidateAndParseAccessToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || claims.AssignmentID == 0 {
		return models.Token{}, ErrNoAssignmentClaim
	}

	return models.Token{Token: token, SignedString: tokenString, AssignmentID: claims.AssignmentID}, nil
}
