package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/knightsclub/chessclub/models"
	"github.com/knightsclub/chessclub/utils"
)

var ErrNoClaims = errors.New("user claims not found in context")

// WithClaims returns a context carrying claims, as Authenticate would.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, ErrNoClaims
	}

	raw, ok := claims[utils.ClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", utils.ClaimUserID)
	}

	// encoding/json decodes numbers in MapClaims as float64
	idFloat, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for '%s' claim: %T", utils.ClaimUserID, raw)
	}
	if idFloat != float64(int(idFloat)) || idFloat <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %v", utils.ClaimUserID, idFloat)
	}
	return int(idFloat), nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoClaims
	}

	roleStr, ok := claims[utils.ClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid '%s' claim", utils.ClaimRole)
	}

	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RoleUser:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
