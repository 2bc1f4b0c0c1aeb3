package models

// User is a portal operator account. Password is the stored credential
// hash-equivalent; it never leaves the auth handler.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	RealName string `json:"real_name"`
	RoleID   int    `json:"role_id"`
}
