package service

import (
	"context"
	"testing"

	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string { return &s }

func TestUserCreate_DefaultsRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	resp, err := userService.Create(context.Background(), dto.CreateUserDTO{
		Username: "newuser",
		Email:    "new@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserCreate_ReservedUsername(t *testing.T) {
	userService := NewUserService(new(MockUserRepository))

	resp, err := userService.Create(context.Background(), dto.CreateUserDTO{
		Username: "me",
		Email:    "me@example.com",
	})

	assert.ErrorIs(t, err, ErrReservedUsername)
	assert.Nil(t, resp)
}

func TestUserCreate_DuplicateIdentity(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505"})

	resp, err := userService.Create(context.Background(), dto.CreateUserDTO{
		Username: "taken",
		Email:    "taken@example.com",
	})

	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.Nil(t, resp)
}

func TestUpdateByUsername_ChangesRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	user := &models.User{Username: "testuser", Role: models.RoleUser}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)

	resp, err := userService.UpdateByUsername(context.Background(), "testuser", dto.UpdateUserDTO{
		Role: strPtr(models.RoleModerator),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, resp.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateSelf_RoleIsPinned(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	user := &models.User{Username: "testuser", Role: models.RoleUser}
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)

	resp, err := userService.UpdateSelf(context.Background(), user, dto.UpdateUserDTO{
		Bio:  strPtr("new bio"),
		Role: strPtr(models.RoleAdmin),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.Equal(t, "new bio", resp.Bio)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateSelf_RejectsReservedRename(t *testing.T) {
	userService := NewUserService(new(MockUserRepository))

	user := &models.User{Username: "testuser", Role: models.RoleUser}
	resp, err := userService.UpdateSelf(context.Background(), user, dto.UpdateUserDTO{
		Username: strPtr("me"),
	})

	assert.ErrorIs(t, err, ErrReservedUsername)
	assert.Nil(t, resp)
}

func TestUserList_PassesSearchThrough(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	users := []models.User{{Username: "alice"}, {Username: "alina"}}
	mockUserRepo.On("List", mock.Anything, "ali", 1, 20).Return(users, int64(2), nil)

	resp, err := userService.List(context.Background(), "ali", 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	mockUserRepo.AssertExpectations(t)
}
