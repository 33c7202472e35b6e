package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-taller/internal/application/auth"
	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/inventario-taller/pkg/jwt"
)

const testSecret = "auth-usecase-test-secret"

func newAuthUC() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 30,
		Issuer:     "inventario-taller-test",
	})
}

func TestCreateUser(t *testing.T) {
	uc := newAuthUC()
	ctx := context.Background()

	u, err := uc.CreateUser(ctx, dto.CreateUserRequest{Username: " bodega1 ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bodega1", u.Username)
	assert.Equal(t, "employee", u.Role)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Username: "bodega1", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Username: "corto", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Username: "raro", Password: "secreto123", Role: "auditor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc := newAuthUC()
	ctx := context.Background()
	created, err := uc.CreateUser(ctx, dto.CreateUserRequest{Username: "jefe", Password: "secreto123", Role: "admin"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "jefe", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, out.User.ID)

	userID, username, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, "jefe", username)
	assert.Equal(t, "admin", role)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "jefe", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
