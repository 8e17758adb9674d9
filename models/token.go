package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set embedded in every issued access token.
//
// The "assignment" claim is the token's sole authority: a holder may list
// and read files for that assignment's panel, nothing else. User id and
// display name are carried for audit only and grant no access on their own.
type AccessClaims struct {
	jwt.RegisteredClaims

	// AssignmentID is the id of the assignment the token is scoped to.
	AssignmentID int64 `json:"assignment"`

	// UserID is the id of the assigned user, for audit trails.
	UserID int64 `json:"user_id,omitempty"`

	// UserName is the display name of the assigned user, for audit trails.
	UserName string `json:"user_name,omitempty"`
}

// Token wraps an issued or parsed JWT access token.
//
// SignedString holds the compact serialized form (header.payload.signature)
// ready to be transmitted in HTTP headers. AssignmentID is a parsed copy of
// the "assignment" claim so callers do not re-inspect claims.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// AssignmentID is the assignment identifier extracted from the
	// "assignment" claim.
	AssignmentID int64 `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
