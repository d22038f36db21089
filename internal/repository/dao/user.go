package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/unidrl/campus-connect/internal/kvstore"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserMSSVExists  = errors.New("student id is already taken by another account")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	MSSV      string    `json:"mssv,omitempty"`
	Class     string    `json:"class,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserDAO struct {
	doc *document[[]User]
}

func NewUserDAO(store kvstore.Store) *UserDAO {
	return &UserDAO{
		doc: newDocument[[]User](store, KeyUsers),
	}
}

// Insert appends user. Emails are unique regardless of case, and so are
// non-empty student ids.
func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	err := d.doc.update(ctx, func(users *[]User) error {
		for _, u := range *users {
			if strings.EqualFold(u.Email, user.Email) {
				return ErrUserEmailExists
			}
			if user.MSSV != "" && strings.EqualFold(u.MSSV, user.MSSV) {
				return ErrUserMSSVExists
			}
		}
		*users = append(*users, user)

		return nil
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	users, _, err := d.doc.read(ctx)
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return User{}, ErrUserNotFound
}

func (d *UserDAO) CountByRole(ctx context.Context, role string) (int, error) {
	users, _, err := d.doc.read(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, u := range users {
		if u.Role == role {
			n++
		}
	}

	return n, nil
}
