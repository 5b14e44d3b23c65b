package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	RolesKey     contextKey = "roles"
)

func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	idVal := ctx.Value(AccountIDKey)
	if idVal == nil {
		return uuid.Nil, false
	}

	idStr, ok := idVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}

	return accountID, true
}

func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	rolesVal := ctx.Value(RolesKey)
	if rolesVal == nil {
		return nil, false
	}

	roles, ok := rolesVal.([]string)
	return roles, ok
}

// HasRoleInContext checks the resolved caller roles, not the store.
func HasRoleInContext(ctx context.Context, role string) bool {
	roles, ok := GetRolesFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func SetCallerContext(ctx context.Context, accountID uuid.UUID, roles []string) context.Context {
	ctx = context.WithValue(ctx, AccountIDKey, accountID.String())
	ctx = context.WithValue(ctx, RolesKey, roles)
	return ctx
}
