package actors

import (
	"testing"

	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestEmailInDomain(t *testing.T) {
	assert.True(t, emailInDomain("priya@miet.ac.in", "miet.ac.in"))
	assert.True(t, emailInDomain("priya@MIET.AC.IN", "miet.ac.in"))
	assert.False(t, emailInDomain("priya@gmail.com", "miet.ac.in"))
	assert.False(t, emailInDomain("priya@sub.miet.ac.in", "miet.ac.in"))
	assert.False(t, emailInDomain("no-at-sign", "miet.ac.in"))
	assert.False(t, emailInDomain("trailing@", "miet.ac.in"))
}

func TestUserRegistrationAndLogin(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)

	user := registerUser(t, system, supervisor, "priya")
	assert.Equal(t, "priya", user.Name)
	assert.Equal(t, "priya@example.edu", user.Email)

	// Outside domain
	result := askActor(t, system, supervisor, &RegisterUserMsg{
		Name:     "mallory",
		Email:    "mallory@gmail.com",
		Password: "password123",
	})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrDomainNotAllowed, appErr.Code)

	// Duplicate email
	result = askActor(t, system, supervisor, &RegisterUserMsg{
		Name:     "priya again",
		Email:    "priya@example.edu",
		Password: "password123",
	})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrUserAlreadyExists, appErr.Code)

	// Successful login
	result = askActor(t, system, supervisor, &LoginMsg{
		Email:    "priya@example.edu",
		Password: "password123",
	})
	login, ok := result.(*LoginResponse)
	assert.True(t, ok)
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID.String(), login.UserID)

	// Wrong password and unknown email fail with the same error code.
	result = askActor(t, system, supervisor, &LoginMsg{
		Email:    "priya@example.edu",
		Password: "wrong",
	})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)

	result = askActor(t, system, supervisor, &LoginMsg{
		Email:    "nobody@example.edu",
		Password: "password123",
	})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)
}

func TestProfileUpdateAndLogout(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)

	user := registerUser(t, system, supervisor, "rohan")

	bio := "CSE, loves graph theory"
	pronouns := "they/them"
	result := askActor(t, system, supervisor, &UpdateProfileMsg{
		UserID: user.ID,
		Update: models.ProfileUpdate{Bio: &bio, Pronouns: &pronouns},
	})
	updated, ok := result.(*models.User)
	assert.True(t, ok)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, pronouns, updated.Pronouns)
	assert.Equal(t, "rohan", updated.Name)

	// Logout flips stored presence to offline.
	result = askActor(t, system, supervisor, &LogoutMsg{UserID: user.ID})
	ack, ok := result.(*LogoutResponse)
	assert.True(t, ok)
	assert.True(t, ack.Success)
}
