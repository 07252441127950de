package domain

// Roles known to the system. Role is stored as a plain string column.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSeller  = "seller"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleSeller
}

// User models an authenticated actor in the system.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Phone        *string `json:"phone"`
	Role         string  `json:"role"`
}

// Session is the identity carried by a verified session token.
type Session struct {
	UserID int64
	Role   string
}

// IsAdmin is used where admins bypass seller ownership checks.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
