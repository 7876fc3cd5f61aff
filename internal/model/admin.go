package model

import "time"

// Admin is the management-surface account. Password holds either a bcrypt
// hash or, for rows predating hashed storage, the legacy plaintext value;
// the latter is replaced on first successful login.
type Admin struct {
	IDAdmin   string    `json:"idAdmin"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicAdmin is the subset of Admin safe to return to clients.
type PublicAdmin struct {
	IDAdmin  string `json:"idAdmin"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public strips the credential fields.
func (a Admin) Public() PublicAdmin {
	return PublicAdmin{IDAdmin: a.IDAdmin, Username: a.Username, Role: a.Role}
}
