package qa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/querynet/backend/internal/models"
	"github.com/emilythestrangee/querynet/backend/internal/testutil"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Register(f.ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, 1, u.Reputation)
	assert.NotEqual(t, "hunter22", u.Password)

	_, err = f.svc.Register(f.ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.Equal(t, KindConflict, KindOf(err))

	got, err := f.svc.Authenticate(f.ctx, "ALICE@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Authenticate(f.ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Authenticate(f.ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	for _, in := range []RegisterInput{
		{Username: "al", Email: "a@example.com", Password: "hunter22"},
		{Username: "alice", Email: "not-an-email", Password: "hunter22"},
		{Username: "alice", Email: "a@example.com", Password: "123"},
		{Username: "alice", Email: "Alice <a@example.com>", Password: "hunter22"},
		{Username: "alice", Email: "", Password: "hunter22"},
		{Username: "al ice", Email: "a@example.com", Password: "hunter22"},
	} {
		_, err := f.svc.Register(f.ctx, in)
		assert.Equal(t, KindValidation, KindOf(err), "%+v", in)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")

	err := f.svc.ChangePassword(f.ctx, bob, "wrong-password", "newpassword")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, f.svc.ChangePassword(f.ctx, bob, testutil.Password, "newpassword"))
	_, err = f.svc.Authenticate(f.ctx, "bob@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	f.user(t, "alice")

	bio, loc := "Gopher", " Lisbon "
	u, err := f.svc.UpdateProfile(f.ctx, bob, ProfilePatch{Bio: &bio, Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", u.Bio)
	assert.Equal(t, "Lisbon", u.Location)

	taken := "alice"
	_, err = f.svc.UpdateProfile(f.ctx, bob, ProfilePatch{Username: &taken})
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestUsersAndActivity(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	alice := f.user(t, "alice")
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", alice.ID).UpdateColumn("reputation", 50).Error)
	q := f.question(t, bob)
	f.answer(t, alice, q.ID)

	users, page, err := f.svc.ListUsers(f.ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Empty(t, users[0].Email)

	act, err := f.svc.Activity(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, act.Stats.QuestionsAsked)
	require.Len(t, act.RecentQuestions, 1)
	assert.Equal(t, int64(1), *act.RecentQuestions[0].AnswerCount)
	assert.Empty(t, act.RecentAnswers)

	_, err = f.svc.GetUser(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newFixture(t)
	u, err := f.svc.Register(f.ctx, RegisterInput{Username: " erin_2 ", Email: " Erin@Example.COM ", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "erin_2", u.Username)
	assert.Equal(t, "erin@example.com", u.Email)
}

func TestUpdateProfileLengthLimits(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")

	long := func(n int) *string {
		s := strings.Repeat("x", n)
		return &s
	}
	for name, patch := range map[string]ProfilePatch{
		"bio":      {Bio: long(maxBio + 1)},
		"location": {Location: long(maxLocation + 1)},
		"website":  {Website: long(maxWebsite + 1)},
		"username": {Username: long(31)},
	} {
		_, err := f.svc.UpdateProfile(f.ctx, bob, patch)
		assert.Equal(t, KindValidation, KindOf(err), name)
	}
	assert.Empty(t, testutil.ReloadUser(t, f.db, bob.ID).Location)

	u, err := f.svc.UpdateProfile(f.ctx, bob, ProfilePatch{Location: long(maxLocation), Website: long(maxWebsite)})
	require.NoError(t, err)
	assert.Len(t, u.Location, maxLocation)
	assert.Len(t, u.Website, maxWebsite)
}
