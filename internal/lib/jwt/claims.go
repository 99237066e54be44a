package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CustomClaims описывает данные, хранящиеся в JWT. Subject содержит идентификатор
// учётной записи, Kind её вид.
type CustomClaims struct {
	Kind  models.IdentityKind `json:"kind"`
	Email string              `json:"email"`
	jwt.RegisteredClaims
}

// Identity восстанавливает Identity из claims.
func (c *CustomClaims) Identity() (models.Identity, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return models.Identity{}, fmt.Errorf("jwt.Identity: invalid subject %q", c.Subject)
	}
	switch c.Kind {
	case models.KindUser:
		return models.UserIdentity(id, c.Email), nil
	case models.KindAdmin:
		return models.AdminIdentity(id, c.Email), nil
	default:
		return models.Identity{}, fmt.Errorf("jwt.Identity: unknown kind %q", c.Kind)
	}
}

// GenerateToken создает JWT токен для identity, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(identity models.Identity) (string, error) {
	const op = "jwt.GenerateToken"

	now := time.Now()
	claims := CustomClaims{
		Kind:  identity.Kind,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
