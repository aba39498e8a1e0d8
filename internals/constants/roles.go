package constants

import "fmt"

// Role yang dikenal aplikasi (kolom user_role, klaim JWT "role").
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Status akun user.
const (
	UserStatusActive  = "ACTIVE"
	UserStatusBlocked = "BLOCKED"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrRoleNotAllowed      = "❌ Role Anda tidak diizinkan mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorNotAllowed(feature string) string {
	return fmt.Sprintf(ErrRoleNotAllowed, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
