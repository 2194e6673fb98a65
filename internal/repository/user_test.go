package repository

import (
	"context"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "testuser", "test@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)
			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUser.Username, user.Username)
				assert.Equal(t, tt.expectedUser.Email, user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM  "))
	assert.Equal(t, "plain@x.io", NormalizeEmail("plain@x.io"))
}

func TestUserRepository_CreateNormalizesEmail(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "mixed", Email: "Mixed@Example.COM", Password: "pw"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "mixed@example.com", user.Email)

	found, err := repo.GetByEmail(ctx, "MIXED@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Missing email is rejected
	err = repo.Create(ctx, &models.User{Username: "noemail", Password: "pw"})
	assert.Error(t, err)
}

func TestUserRepository_CreateSuperuserRequiresAllFlags(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	base := func() *models.User {
		return &models.User{
			Username:    "root",
			Email:       "root@example.com",
			Password:    "pw",
			IsActive:    true,
			IsStaff:     true,
			IsSuperuser: true,
		}
	}

	tests := []struct {
		name   string
		mutate func(*models.User)
	}{
		{"inactive", func(u *models.User) { u.IsActive = false }},
		{"not staff", func(u *models.User) { u.IsStaff = false }},
		{"not superuser", func(u *models.User) { u.IsSuperuser = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base()
			tt.mutate(u)
			err := repo.CreateSuperuser(ctx, u)
			assert.ErrorIs(t, err, ErrFlagsRequired)

			var count int64
			db.Model(&models.User{}).Count(&count)
			assert.Equal(t, int64(0), count, "no row should be created")
		})
	}

	require.NoError(t, repo.CreateSuperuser(ctx, base()))

	staff, err := repo.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.True(t, staff[0].IsSuperuser)
}

func TestUserRepository_UpdateTogglesStaffRoster(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	regular := &models.User{Username: "regular", Email: "regular@example.com", Password: "pw", IsActive: true}
	require.NoError(t, repo.Create(ctx, regular))

	staff, err := repo.ListStaff(ctx)
	require.NoError(t, err)
	assert.Empty(t, staff)

	// Promote
	regular.IsStaff = true
	require.NoError(t, repo.Update(ctx, regular))

	staff, err = repo.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "regular", staff[0].Username)

	// Demote
	promoted, err := repo.GetByID(ctx, regular.ID)
	require.NoError(t, err)
	promoted.IsStaff = false
	require.NoError(t, repo.Update(ctx, promoted))

	staff, err = repo.ListStaff(ctx)
	require.NoError(t, err)
	assert.Empty(t, staff)
}
