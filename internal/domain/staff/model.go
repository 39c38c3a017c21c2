package staff

import "time"

// Personnel maps to the personnel table. The national code is the primary
// key; doctors are kept in their own table and join the staff pool only
// for authentication.
type Personnel struct {
	NationalCode string    `db:"national_code" json:"national_code"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session is the result of a successful login.
type Session struct {
	Token        string `json:"token"`
	NationalCode string `json:"national_code"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
}
