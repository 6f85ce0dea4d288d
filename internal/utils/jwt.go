package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry lit le claim exp d'un JWT sans vérifier sa signature :
// la vitrine ne possède pas la clé de l'API, elle veut seulement savoir
// si le jeton est encore utilisable.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("claim exp absent")
	}
	return exp.Time, nil
}

// ExpiresWithin indique si le jeton expire dans moins de d (ou est illisible).
func ExpiresWithin(token string, d time.Duration, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return !now.Add(d).Before(exp)
}
