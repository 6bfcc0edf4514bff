package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	dErrors "easel/pkg/domain-errors"
	"easel/pkg/requestcontext"
)

// Authorizer answers one question: does the calling identity hold the
// administrator capability? Every mutating operation calls this first and
// aborts with zero effects when it fails. Role membership itself (grants,
// revocations) lives in an external access-control system; the registry only
// consumes the check.
type Authorizer interface {
	Authorize(ctx context.Context) error
}

var errNotAdministrator = dErrors.New(dErrors.CodeUnauthorized, "administrator capability required")

// StaticTokenAuthorizer grants the administrator capability to callers
// presenting the shared admin token.
type StaticTokenAuthorizer struct {
	token string
}

func NewStaticTokenAuthorizer(token string) *StaticTokenAuthorizer {
	return &StaticTokenAuthorizer{token: token}
}

func (a *StaticTokenAuthorizer) Authorize(ctx context.Context) error {
	if a.token == "" {
		return errNotAdministrator
	}
	presented := requestcontext.Credential(ctx)
	// Constant-time comparison to prevent timing attacks.
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
		return errNotAdministrator
	}
	return nil
}

// AdminRole is the role claim value the JWT authorizer requires.
const AdminRole = "admin"

// JWTAuthorizer grants the administrator capability to callers presenting a
// bearer token signed with the shared key and carrying the admin role claim.
// The token issuer is the external access-control collaborator; the registry
// only verifies the capability.
type JWTAuthorizer struct {
	signingKey []byte
}

func NewJWTAuthorizer(signingKey string) *JWTAuthorizer {
	return &JWTAuthorizer{signingKey: []byte(signingKey)}
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *JWTAuthorizer) Authorize(ctx context.Context) error {
	presented := requestcontext.Credential(ctx)
	if presented == "" {
		return errNotAdministrator
	}

	var claims adminClaims
	_, err := jwt.ParseWithClaims(presented, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil {
		return errNotAdministrator
	}
	if claims.Role != AdminRole {
		return errNotAdministrator
	}
	return nil
}

// MultiAuthorizer accepts the caller if any configured authorizer does.
// Lets deployments run the static operator token and JWT tokens side by side.
type MultiAuthorizer struct {
	authorizers []Authorizer
}

func NewMultiAuthorizer(authorizers ...Authorizer) *MultiAuthorizer {
	return &MultiAuthorizer{authorizers: authorizers}
}

func (a *MultiAuthorizer) Authorize(ctx context.Context) error {
	for _, authz := range a.authorizers {
		if err := authz.Authorize(ctx); err == nil {
			return nil
		}
	}
	return errNotAdministrator
}
