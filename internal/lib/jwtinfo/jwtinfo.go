// Package jwtinfo реализует разбор JWT токена сессии на стороне клиента.
//
// Клиент не знает секретного ключа сервера, поэтому разбор ведётся без
// проверки подписи: извлечённые значения годятся для отображения и
// планирования повторного входа, но не для решений о доступе.
package jwtinfo

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt извлекает срок действия токена сессии из claim "exp".
// Возвращает ошибку, если токен не разбирается или claim отсутствует.
func ExpiresAt(tokenStr string) (time.Time, error) {
	const op = "jwtinfo.ExpiresAt"

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%s: token has no exp claim", op)
	}
	return claims.ExpiresAt.Time, nil
}
