// internal/middleware/jwt.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"campus-swamp/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

// UserIDKey carries the authenticated user's ID through request contexts.
const UserIDKey contextKey = "userId"

var (
	jwtSecret   []byte
	tokenExpiry = 24 * time.Hour
)

// InitJWT sets the signing secret and token lifetime. Must be called once
// at startup before any token is issued or validated. The expiry is taken
// as given; a non-positive value mints already-expired tokens.
func InitJWT(secret string, expiry time.Duration) {
	jwtSecret = []byte(secret)
	tokenExpiry = expiry
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the user.
func GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken parses and verifies a token, returning the user it was
// issued to.
func ValidateToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, utils.NewAppError(utils.ErrInvalidToken, "Unexpected signing method", nil)
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, utils.NewAppError(utils.ErrInvalidToken, "Invalid or expired token", err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, utils.NewAppError(utils.ErrInvalidToken, "Invalid user ID in token", err)
	}
	return userID, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's user ID in the request context.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}
		userID, err := ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the token from the Authorization header, falling
// back to the token query parameter for WebSocket upgrades where browsers
// cannot set headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// UserIDFromContext returns the authenticated user ID placed by
// AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
