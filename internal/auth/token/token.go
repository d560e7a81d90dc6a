package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// TTL is how long an issued token stays valid.
const TTL = time.Hour

// Claims is the payload embedded in every issued token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Service signs and verifies bearer tokens with a process-wide HMAC
// secret. Verification never touches the database: it is a pure
// function of (token, secret, clock).
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret []byte) *Service {
	return &Service{
		secret: secret,
		now:    time.Now,
	}
}

// WithClock overrides the clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue mints a signed token carrying the email, valid for one hour.
func (s *Service) Issue(email string) (string, error) {
	issuedAt := s.now()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TTL)),
		},
		Email: email,
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify validates the signature and expiry and returns the embedded
// claims. Expiry is reported as ErrTokenExpired, every other failure
// as ErrTokenInvalid.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !tok.Valid || claims.Email == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
