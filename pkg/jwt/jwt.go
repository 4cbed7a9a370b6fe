package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime vigencia fija de todo token emitido.
const TokenLifetime = 24 * time.Hour

// Claims incluye los claims estándar JWT más la identidad del actor.
// Rol y empleador viajan en el token para que el RBAC no consulte la base de datos.
type Claims struct {
	jwt.RegisteredClaims
	ActorID    string `json:"id"`
	RUT        string `json:"rut"`
	Role       string `json:"rol"`
	EmployerID string `json:"empleador_id,omitempty"`
}

var errEmptySecret = errors.New("jwt: secret vacío")

// Generate firma un token HS256 con vigencia TokenLifetime desde now.
func Generate(secret, issuer string, now time.Time, c Claims) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   c.ActorID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado, de otro algoritmo o con firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}
