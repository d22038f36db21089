package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidrl/campus-connect/internal/domain"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.auth.Signup(ctx, domain.User{
		Email:    "an.nguyen@vnuk.edu.vn",
		Password: "secret123",
		Name:     "Nguyen Van An",
		MSSV:     "20230592",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, created.Role)
	assert.NotEqual(t, "secret123", created.Password)

	_, err = f.auth.Signup(ctx, domain.User{Email: "AN.NGUYEN@vnuk.edu.vn", Password: "other1234"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	user, err := f.auth.Login(ctx, "an.nguyen@vnuk.edu.vn", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "20230592", user.MSSV)

	_, err = f.auth.Login(ctx, "an.nguyen@vnuk.edu.vn", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = f.auth.Login(ctx, "ghost@vnuk.edu.vn", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)

	found, err := f.users.GetUser(ctx, "an.nguyen@vnuk.edu.vn")
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van An", found.Name)
}

func TestAuthService_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.auth.SeedAdmin(ctx, "", "", ""))
	require.NoError(t, f.auth.SeedAdmin(ctx, "admin@vnuk.edu.vn", "admin1234", "Admin"))
	require.NoError(t, f.auth.SeedAdmin(ctx, "other-admin@vnuk.edu.vn", "admin1234", "Admin"))

	admin, err := f.auth.Login(ctx, "admin@vnuk.edu.vn", "admin1234")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = f.users.GetUser(ctx, "other-admin@vnuk.edu.vn")
	assert.ErrorIs(t, err, ErrUserNotFound, "only the first admin is seeded")
}

func TestAuthService_SignupRejectsTakenStudentID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Signup(ctx, domain.User{Email: "an@vnuk.edu.vn", Password: "secret123", MSSV: "20230592"})
	require.NoError(t, err)

	_, err = f.auth.Signup(ctx, domain.User{Email: "impostor@vnuk.edu.vn", Password: "secret123", MSSV: " 20230592 "})
	assert.ErrorIs(t, err, ErrUserMSSVExists)

	_, err = f.users.GetUser(ctx, "impostor@vnuk.edu.vn")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
