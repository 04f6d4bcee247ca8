package domain

// Permission is a capability string granted to a token by the identity provider.
type Permission string

const (
	PermissionGetDrinksDetail Permission = "get:drinks-detail"
	PermissionPostDrinks      Permission = "post:drinks"
	PermissionPatchDrinks     Permission = "patch:drinks"
	PermissionDeleteDrinks    Permission = "delete:drinks"
)

// NoPermission skips the permission step of an authorization check.
const NoPermission Permission = ""

func (p Permission) String() string {
	return string(p)
}
