package repository

import (
	"context"
	"fmt"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserMSSVExists  = dao.ErrUserMSSVExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	n, err := r.dao.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByRole -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		Name:      u.Name,
		MSSV:      u.MSSV,
		Class:     u.Class,
		CreatedAt: u.CreatedAt,
	}
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	return dao.User{
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		Name:      u.Name,
		MSSV:      u.MSSV,
		Class:     u.Class,
		CreatedAt: u.CreatedAt,
	}
}
