package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tavola/internal/domain"
	"tavola/internal/repos"
)

var ErrBadCreds = errors.New("invalid username or password")

const maxAdmins = 2

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if !u.IsActive {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// Register creates an account. Self-registration closes once the admin
// quota is reached; the default role is staff.
func (s *AuthService) Register(username, email, password, role string) (*domain.User, error) {
	admins, err := s.Users.CountByRole(domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if admins >= maxAdmins {
		return nil, &RejectedError{Reason: "registration closed: maximum number of admins reached"}
	}
	if taken, err := s.Users.UsernameTaken(username); err != nil {
		return nil, err
	} else if taken {
		return nil, &RejectedError{Reason: "username already exists"}
	}
	if taken, err := s.Users.EmailTaken(email); err != nil {
		return nil, err
	} else if taken {
		return nil, &RejectedError{Reason: "email already exists"}
	}
	if role == "" {
		role = domain.RoleStaff
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Hash:     string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}
