package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk-service/internal/config"
	"github.com/deskflow/helpdesk-service/internal/domain"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

func newAuthService(f *fixture) *AuthService {
	return NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4},
		AuthDependencies{UserRepo: f.repos.Users, DepartmentRepo: f.repos.Departments})
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Nia New", Email: " Nia@Example.com ", Password: "s3cret-pass", DepartmentID: &f.department.ID})
	require.NoError(t, err)
	assert.Equal(t, "nia@example.com", registered.User.Email)
	assert.Equal(t, domain.UserRoleUser, registered.User.Role)
	assert.NotEmpty(t, registered.Token)

	claims, err := svc.TokenManager().ParseToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.Subject)

	loggedIn, err := svc.Login(ctx, "NIA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(ctx, "nia@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
	_, err = svc.Login(ctx, "nobody@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Register(ctx, RegisterInput{Name: "Again", Email: "nia@example.com", Password: "another-pass"})
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.Register(ctx, RegisterInput{Name: "Lost", Email: "lost@example.com", Password: "another-pass", DepartmentID: strPtr("nowhere")})
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSetRoleAndList(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)
	ctx := context.Background()

	user, err := svc.SetRole(ctx, f.raiser.UserID, domain.UserRoleWorker)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleWorker, user.Role)

	role := domain.UserRoleWorker
	workers, err := svc.ListUsers(ctx, &role, 10, 0)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "Rita Raiser", workers[0].Name)
	assert.Equal(t, "Walt Worker", workers[1].Name)

	_, err = svc.SetRole(ctx, f.raiser.UserID, "OWNER")
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
	_, err = svc.SetRole(ctx, "missing", domain.UserRoleAdmin)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	me, err := svc.Me(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, "Mona Manager", me.Name)
}
