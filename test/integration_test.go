package test

import (
	"context"
	"testing"
	"time"

	"chatlink-auth/entity"
	"chatlink-auth/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRepository_Postgres(t *testing.T) {
	tdb := SetupTestDB(t)
	repo := repository.NewOTPRepository(tdb.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	tdb.CreateTestOTP(t, entity.OTPNamespaceRegistration, "a@x.com", "111111", now)
	tdb.CreateTestOTP(t, entity.OTPNamespaceRegistration, "a@x.com", "222222", now)
	tdb.CreateTestOTP(t, entity.OTPNamespacePasswordReset, "a@x.com", "333333", now)

	assert.Equal(t, 2, tdb.OTPCount(t, "a@x.com"))

	rec, err := repo.Find(ctx, entity.OTPNamespaceRegistration, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "222222", rec.Code)

	rec.Attempts = 3
	require.NoError(t, repo.Update(ctx, rec))
	rec, err = repo.Find(ctx, entity.OTPNamespaceRegistration, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Attempts)

	deleted, err := repo.DeleteCreatedBefore(ctx, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	rec, err = repo.Find(ctx, entity.OTPNamespaceRegistration, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestUserRepository_Postgres(t *testing.T) {
	tdb := SetupTestDB(t)
	repo := repository.NewUserRepository(tdb.DB)
	ctx := context.Background()

	created := tdb.CreateTestUser(t, "mona", "mona@example.com")
	assert.NotZero(t, created.ID)

	for _, identifier := range []string{"mona", "mona@example.com"} {
		user, err := repo.GetByIdentifier(ctx, identifier)
		require.NoError(t, err)
		require.NotNil(t, user, identifier)
		assert.Equal(t, created.ID, user.ID)
	}

	email := "mona@example.com"
	_, err := repo.Create(ctx, &entity.User{
		Username:         "mona2",
		Email:            &email,
		PasswordHash:     "x",
		FullName:         "Mona Two",
		DateOfBirth:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:           "female",
		Country:          "Testland",
		NativeLanguage:   "en",
		LearningLanguage: "fr",
	})
	assert.ErrorIs(t, err, repository.ErrUniqueViolation)
	tdb.AssertUserCount(t, 1)

	require.NoError(t, repo.SetPassword(ctx, created.ID, "new-hash"))
	user, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.PasswordHash)
}
