package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	dErrors "easel/pkg/domain-errors"
	"easel/pkg/requestcontext"
)

type AuthorizerSuite struct {
	suite.Suite
}

func TestAuthorizerSuite(t *testing.T) {
	suite.Run(t, new(AuthorizerSuite))
}

func (s *AuthorizerSuite) withCredential(credential string) context.Context {
	return requestcontext.WithCredential(context.Background(), credential)
}

func (s *AuthorizerSuite) signToken(key string, claims jwt.Claims) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	s.Require().NoError(err)
	return signed
}

func (s *AuthorizerSuite) TestStaticToken() {
	authz := NewStaticTokenAuthorizer("secret-token")

	s.Run("matching token passes", func() {
		s.NoError(authz.Authorize(s.withCredential("secret-token")))
	})

	s.Run("wrong token is rejected", func() {
		err := authz.Authorize(s.withCredential("wrong"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing credential is rejected", func() {
		err := authz.Authorize(context.Background())
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty configured token denies everything", func() {
		open := NewStaticTokenAuthorizer("")
		err := open.Authorize(s.withCredential(""))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthorizerSuite) TestJWT() {
	const key = "jwt-signing-key"
	authz := NewJWTAuthorizer(key)

	claimsWith := func(role string, ttl time.Duration) jwt.MapClaims {
		return jwt.MapClaims{
			"role": role,
			"sub":  "operator-1",
			"exp":  time.Now().Add(ttl).Unix(),
		}
	}

	s.Run("valid admin token passes", func() {
		token := s.signToken(key, claimsWith(AdminRole, time.Hour))
		s.NoError(authz.Authorize(s.withCredential(token)))
	})

	s.Run("wrong role is rejected", func() {
		token := s.signToken(key, claimsWith("viewer", time.Hour))
		err := authz.Authorize(s.withCredential(token))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("wrong signing key is rejected", func() {
		token := s.signToken("other-key", claimsWith(AdminRole, time.Hour))
		err := authz.Authorize(s.withCredential(token))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("expired token is rejected", func() {
		token := s.signToken(key, claimsWith(AdminRole, -time.Hour))
		err := authz.Authorize(s.withCredential(token))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("garbage credential is rejected", func() {
		err := authz.Authorize(s.withCredential("not-a-jwt"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing credential is rejected", func() {
		err := authz.Authorize(context.Background())
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthorizerSuite) TestMulti() {
	const key = "jwt-signing-key"
	authz := NewMultiAuthorizer(
		NewStaticTokenAuthorizer("secret-token"),
		NewJWTAuthorizer(key),
	)

	s.Run("static token passes", func() {
		s.NoError(authz.Authorize(s.withCredential("secret-token")))
	})

	s.Run("jwt passes", func() {
		token := s.signToken(key, jwt.MapClaims{
			"role": AdminRole,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		s.NoError(authz.Authorize(s.withCredential(token)))
	})

	s.Run("credential matching neither is rejected", func() {
		err := authz.Authorize(s.withCredential("nope"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
