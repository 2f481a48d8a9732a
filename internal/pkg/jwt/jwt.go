package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"lifelessons/internal/session"
)

// Service signs and validates HS256 tokens. The portal runs two instances:
// one for session tokens handed to portal clients and one for the identity
// tokens attached to every upstream request.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Claims identify a session and the person behind it.
type Claims struct {
	SessionID string `json:"sid,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	Provider  string `json:"provider,omitempty"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithIssuer sets the iss claim on generated tokens and requires it on
// validation.
func (s *Service) WithIssuer(issuer string) *Service {
	s.issuer = issuer
	return s
}

// GenerateToken issues a session token for s.
func (s *Service) GenerateToken(sess *session.Session) (string, error) {
	if sess == nil {
		return "", errors.New("nil session")
	}
	claims := s.claimsFor(sess)
	claims.SessionID = sess.ID()

	// session tokens never outlive the session itself
	if exp := sess.ExpiresAt(); !exp.IsZero() && exp.Before(claims.ExpiresAt.Time) {
		claims.ExpiresAt = jwtlib.NewNumericDate(exp)
	}
	return s.sign(claims)
}

// MintIdentityToken issues a fresh short-lived identity token. It is called
// once per upstream request.
func (s *Service) MintIdentityToken(sess *session.Session) (string, error) {
	if sess == nil {
		return "", errors.New("nil session")
	}
	return s.sign(s.claimsFor(sess))
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}

	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}

func (s *Service) claimsFor(sess *session.Session) Claims {
	now := s.now()
	return Claims{
		Email:    sess.Email(),
		Name:     sess.DisplayName(),
		Picture:  sess.PhotoURL(),
		Provider: string(sess.Provider()),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sess.UID(),
			Issuer:    s.issuer,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
}

func (s *Service) sign(claims Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
