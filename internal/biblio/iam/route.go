package iam

import "github.com/aussiebroadwan/biblio/internal/biblio/domain"

// Cookie names carrying the token pair.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Route declares who may call an endpoint. The zero value requires an
// authenticated caller and no particular permission.
type Route struct {
	Public      bool
	Permissions []domain.Permission
}

func Public() Route { return Route{Public: true} }

// Requires declares an authenticated route needing every listed permission.
func Requires(perms ...domain.Permission) Route {
	return Route{Permissions: perms}
}
