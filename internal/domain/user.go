package domain

const (
	RoleAdmin = "admin"
	RoleChef  = "chef"
	RoleStaff = "staff"
)

type User struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Hash     string `db:"password_hash" json:"-"`
	Role     string `db:"role" json:"role"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
