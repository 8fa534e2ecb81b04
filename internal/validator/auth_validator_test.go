package validator_test

import (
	"context"
	"testing"

	"bookstore/internal/infra/repository"
	"bookstore/internal/testutil"
	"bookstore/internal/usecase"
	auth "bookstore/internal/usecase/auth_usecase"
	"bookstore/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() auth.RegisterUserInput {
	return auth.RegisterUserInput{
		Username:  "new.user",
		Password:  "long-enough-1",
		FirstName: "New",
		LastName:  "User",
		Email:     "new@example.com",
	}
}

func noticeOf(t *testing.T, err error) string {
	t.Helper()
	ae, ok := usecase.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, usecase.KindValidation, ae.Kind)
	return ae.Notice
}

func TestValidateRegister(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	taken := testutil.SeedCustomer(t, gdb, "taken")
	v := validator.NewAuthValidator(repository.NewUserGormRepository(gdb))

	tests := []struct {
		name   string
		mutate func(in *auth.RegisterUserInput)
		notice string
	}{
		{name: "ok", mutate: func(in *auth.RegisterUserInput) {}},
		{name: "missing first name", mutate: func(in *auth.RegisterUserInput) { in.FirstName = " " }, notice: "Please fill in all required fields."},
		{name: "missing password", mutate: func(in *auth.RegisterUserInput) { in.Password = "" }, notice: "Please fill in all required fields."},
		{name: "username too short", mutate: func(in *auth.RegisterUserInput) { in.Username = "ab" }, notice: "Username must be 3-50 letters, digits, dots, dashes or underscores."},
		{name: "username with space", mutate: func(in *auth.RegisterUserInput) { in.Username = "new user" }, notice: "Username must be 3-50 letters, digits, dots, dashes or underscores."},
		{name: "bad email", mutate: func(in *auth.RegisterUserInput) { in.Email = "not-an-email" }, notice: "Please enter a valid email address."},
		{name: "short password", mutate: func(in *auth.RegisterUserInput) { in.Password = "short1" }, notice: "Password must be at least 8 characters."},
		{name: "common password", mutate: func(in *auth.RegisterUserInput) { in.Password = "Password123" }, notice: "Password is too common. Please choose another."},
		{name: "username taken", mutate: func(in *auth.RegisterUserInput) { in.Username = taken.Username }, notice: "Username already exists. Please choose another."},
		{name: "email taken", mutate: func(in *auth.RegisterUserInput) { in.Email = taken.Email }, notice: "Email already registered."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegister()
			tt.mutate(&in)

			err := v.ValidateRegister(context.Background(), in)
			if tt.notice == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.notice, noticeOf(t, err))
		})
	}
}

func TestValidateProfile(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	me := testutil.SeedCustomer(t, gdb, "me")
	other := testutil.SeedCustomer(t, gdb, "other")
	v := validator.NewAuthValidator(repository.NewUserGormRepository(gdb))
	ctx := context.Background()

	base := auth.UpdateProfileInput{FirstName: "Me", LastName: "Myself", Email: me.Email}

	// 自分のemailのまま、パスワード空は可
	assert.NoError(t, v.ValidateProfile(ctx, me.ID, base))

	in := base
	in.Email = other.Email
	err := v.ValidateProfile(ctx, me.ID, in)
	require.Error(t, err)
	assert.Equal(t, "Email already registered.", noticeOf(t, err))

	in = base
	in.NewPassword = "1234567"
	err = v.ValidateProfile(ctx, me.ID, in)
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters.", noticeOf(t, err))

	in = base
	in.LastName = ""
	err = v.ValidateProfile(ctx, me.ID, in)
	require.Error(t, err)
	assert.Equal(t, "Please fill in all required fields.", noticeOf(t, err))
}

func TestValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator(nil)
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "alice", "x"))

	err := v.ValidateLogin(ctx, "  ", "x")
	require.Error(t, err)
	assert.Equal(t, "Invalid username or password", noticeOf(t, err))

	err = v.ValidateLogin(ctx, "alice", "")
	require.Error(t, err)
}
