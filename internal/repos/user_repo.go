package repos

import (
	"github.com/jmoiron/sqlx"

	"tavola/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, email, password_hash, role, is_active`

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users ORDER BY username`)
	return out, err
}

func (r *UserRepo) CountByRole(role string) (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE role = ?`, role)
	return n, err
}

func (r *UserRepo) UsernameTaken(username string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(username)=LOWER(?)`, username)
	return n > 0, err
}

func (r *UserRepo) EmailTaken(email string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, email)
	return n > 0, err
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id, username, email, password_hash, role, is_active, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, u.ID, u.Username, u.Email, u.Hash, u.Role, u.IsActive)
	return err
}

func (r *UserRepo) Update(u domain.User) error {
	_, err := r.DB.Exec(`
	  UPDATE users
	  SET username = ?, email = ?, password_hash = ?, role = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, u.Username, u.Email, u.Hash, u.Role, u.IsActive, u.ID)
	return err
}

// Delete removes a user; sessions go with it via ON DELETE CASCADE.
func (r *UserRepo) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.username,u.email,u.password_hash,u.role,u.is_active
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
