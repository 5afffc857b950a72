package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/folio/internal/access"
	"github.com/five82/folio/internal/library"
)

// ResolveRole picks the role claim for a login response. The explicit role
// field wins, then the first entry of the user's roles, then a role or roles
// claim in a JWT-shaped token. A response with none of these is a Member.
func ResolveRole(resp library.LoginResponse) access.Role {
	if role := access.ParseRole(resp.Role); role != access.RoleNone {
		return role
	}
	if resp.User != nil && len(resp.User.Roles) > 0 {
		if role := access.ParseRole(resp.User.Roles[0]); role != access.RoleNone {
			return role
		}
	}
	if role := roleFromToken(resp.Token); role != access.RoleNone {
		return role
	}
	return access.RoleMember
}

// roleFromToken reads the role claim without verifying the signature.
func roleFromToken(token string) access.Role {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return access.RoleNone
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return access.RoleNone
	}
	if value, ok := claims["role"].(string); ok {
		return access.ParseRole(value)
	}
	if values, ok := claims["roles"].([]any); ok && len(values) > 0 {
		if first, ok := values[0].(string); ok {
			return access.ParseRole(first)
		}
	}
	return access.RoleNone
}
