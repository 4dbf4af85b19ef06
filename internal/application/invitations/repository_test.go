package invitations

import (
	"context"
	"testing"

	"wedding-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (*GormRepository, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Invitation{}))
	return &GormRepository{DB: db}, db
}

func TestRepo_CreateAndFind(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	inv := domain.NewInvitation("The Smith Family", "SMITH2026", []string{"John Smith", "Jane Smith"})
	require.NoError(t, repo.Create(ctx, inv))
	assert.NotZero(t, inv.ID)

	got, err := repo.FindByCode(ctx, "SMITH2026")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, []string{"John Smith", "Jane Smith"}, []string(got.PartyMembers))
	assert.Empty(t, got.SubmittedRSVPMembers)
	assert.Empty(t, got.AcceptingMembers)
	assert.Equal(t, 1, got.Revision)

	byID, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Smith Family", byID.DisplayName)
}

func TestRepo_FindByCode_CaseSensitive(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.NewInvitation("Smiths", "SMITH2026", []string{"John"})))

	_, err := repo.FindByCode(ctx, "smith2026")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_CreateDuplicateCode(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.NewInvitation("Smiths", "SMITH2026", []string{"John"})))

	err := repo.Create(ctx, domain.NewInvitation("Other Smiths", "SMITH2026", []string{"Jim"}))
	assert.ErrorIs(t, err, ErrCodeExists)

	var count int64
	require.NoError(t, db.Model(&domain.Invitation{}).Where("invitation_code = ?", "SMITH2026").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepo_UniqueIndexBackstopsPrecheck(t *testing.T) {
	_, db := setupRepo(t)
	require.NoError(t, db.Create(domain.NewInvitation("Smiths", "SMITH2026", []string{"John"})).Error)

	// bypass the pre-check the way a concurrent creator would slip past it
	err := db.Create(domain.NewInvitation("Other", "SMITH2026", []string{"Jim"})).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}

func TestRepo_UpdateBumpsRevision(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	inv := domain.NewInvitation("Smiths", "SMITH2026", []string{"John", "Jane"})
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, inv.Accept("John"))
	require.NoError(t, repo.Update(ctx, inv))
	assert.Equal(t, 2, inv.Revision)

	got, err := repo.FindByCode(ctx, "SMITH2026")
	require.NoError(t, err)
	assert.Equal(t, []string{"John"}, []string(got.AcceptingMembers))
	assert.Equal(t, []string{"John"}, []string(got.SubmittedRSVPMembers))
	assert.Equal(t, 2, got.Revision)
}

func TestRepo_UpdateStaleRevisionConflicts(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.NewInvitation("Smiths", "SMITH2026", []string{"John", "Jane"})))

	a, err := repo.FindByCode(ctx, "SMITH2026")
	require.NoError(t, err)
	b, err := repo.FindByCode(ctx, "SMITH2026")
	require.NoError(t, err)

	require.NoError(t, a.Accept("John"))
	require.NoError(t, repo.Update(ctx, a))

	require.NoError(t, b.Decline("Jane"))
	assert.ErrorIs(t, repo.Update(ctx, b), ErrConflict)

	got, err := repo.FindByCode(ctx, "SMITH2026")
	require.NoError(t, err)
	assert.Equal(t, []string{"John"}, []string(got.SubmittedRSVPMembers))
}

func TestRepo_UpdateMissing(t *testing.T) {
	repo, _ := setupRepo(t)
	inv := domain.NewInvitation("Ghosts", "GHOST", []string{"Casper"})
	inv.ID = 99
	assert.ErrorIs(t, repo.Update(context.Background(), inv), ErrNotFound)
}

func TestRepo_DeleteAndFindAll(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	a := domain.NewInvitation("A", "CODEA", []string{"a"})
	b := domain.NewInvitation("B", "CODEB", []string{"b"})
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CODEA", all[0].InvitationCode)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "CODEB", all[0].InvitationCode)
}
