package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/food_ordering/internal/access"
)

var errSignMethod = errors.New("unexpected sign method")

// AccessClaims is what every authenticated request carries. Subject holds
// the user id.
type AccessClaims struct {
	Username string         `json:"username"`
	Role     access.Role    `json:"role"`
	Country  access.Country `json:"country"`
	jwt.RegisteredClaims
}

func NewAccessToken(secret []byte, userID, username string, role access.Role, country access.Country, exp time.Time) (string, error) {
	claims := AccessClaims{
		Username: username,
		Role:     role,
		Country:  country,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func AccessClaimsFromToken(tokenStr string, secret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hs256Key(secret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}

func hs256Key(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errSignMethod
		}
		return secret, nil
	}
}
