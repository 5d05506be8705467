package constants

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	CreateArtwork:      {RoleArtist},
	UploadArtworkImage: {RoleArtist},
	CreateAuction:      {RoleArtist},
	CancelAuction:      {RoleArtist},
	PurchaseFraction:   {RoleInvestor, RoleArtist},
	PlaceBid:           {RoleInvestor, RoleArtist},
	ViewPortfolio:      {RoleInvestor, RoleArtist},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
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
