package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ashlinpj/xplore/internal/models"
)

// ctxKeyActor — приватный ключ контекста для разрешённой личности.
type ctxKeyActor struct{}

// accessClaims — клеймы access-токена, выпущенного auth-сервисом.
type accessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth разбирает Bearer-токен (HS256) и заголовок X-Visitor-Id в models.Actor
// и кладёт его в контекст.
//
// Мидлвар никогда не отклоняет запрос сам: битый или просроченный токен даёт
// анонимного актёра, а 401 решают хендлеры — большинство роутов публичные.
// X-Visitor-Id — непрозрачный клиентский токен, используется только для
// дедупликации просмотров и никогда для авторизации.
func Auth(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := models.Actor{
				VisitorID: strings.TrimSpace(r.Header.Get("X-Visitor-Id")),
			}

			if token := bearerToken(r); token != "" {
				if uid, role, err := parseAccessToken(token, secret); err == nil {
					actor.UserID = uid
					actor.Role = role
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom возвращает актёра запроса; без Auth-мидлвара — анонимный актёр.
func ActorFrom(ctx context.Context) models.Actor {
	if a, ok := ctx.Value(ctxKeyActor{}).(models.Actor); ok {
		return a
	}
	return models.Actor{}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) || len(auth) <= len(prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

func parseAccessToken(tokenStr, secret string) (uuid.UUID, string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method")
			}

			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return uuid.Nil, "", err
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token")
	}

	// uid-клейм первичен; Subject — запасной вариант для чужих издателей.
	raw := claims.UserID
	if raw == "" {
		raw = claims.Subject
	}

	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid token subject")
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}

	return uid, role, nil
}
