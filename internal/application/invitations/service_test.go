package invitations

import (
	"context"
	"errors"
	"testing"

	"wedding-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	repo, _ := setupRepo(t)
	return &Service{Repo: repo}
}

func createSmiths(t *testing.T, s *Service) *domain.Invitation {
	inv, err := s.CreateInvitation(context.Background(), CreateInput{
		DisplayName:    "The Smith Family",
		InvitationCode: "SMITH2026",
		PartyMembers:   []string{"John Smith", "Jane Smith"},
	})
	require.NoError(t, err)
	return inv
}

func TestScenarioA_CreateThenGuestSeesPending(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	createSmiths(t, s)

	list, err := s.ListInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, list.Invitations, 1)
	assert.Empty(t, list.Invitations[0].Invitation.SubmittedRSVPMembers)
	assert.Empty(t, list.Invitations[0].Invitation.AcceptingMembers)

	inv, err := s.Resolve(ctx, "SMITH2026")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, []domain.MemberRSVP{
		{Name: "John Smith", Status: domain.StatusPending},
		{Name: "Jane Smith", Status: domain.StatusPending},
	}, inv.Statuses())
}

func TestScenarioB_AcceptThenDecline(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	createSmiths(t, s)

	inv, err := s.Respond(ctx, "SMITH2026", "John Smith", domain.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith"}, []string(inv.SubmittedRSVPMembers))
	assert.Equal(t, []string{"John Smith"}, []string(inv.AcceptingMembers))

	_, err = s.Respond(ctx, "SMITH2026", "Jane Smith", domain.ActionDecline)
	require.NoError(t, err)

	stored, err := s.Resolve(ctx, "SMITH2026")
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith", "Jane Smith"}, []string(stored.SubmittedRSVPMembers))
	assert.Equal(t, []string{"John Smith"}, []string(stored.AcceptingMembers))

	list, err := s.ListInvitations(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Tally{Accepted: 1, Declined: 1, Pending: 0, Total: 2}, list.Totals)
}

func TestScenarioC_DuplicateCodeRejected(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	createSmiths(t, s)

	_, err := s.CreateInvitation(ctx, CreateInput{
		DisplayName:    "Other Smiths",
		InvitationCode: "SMITH2026",
		PartyMembers:   []string{"Jim Smith"},
	})
	assert.ErrorIs(t, err, ErrCodeExists)

	list, err := s.ListInvitations(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Invitations, 1)
}

func TestCreateInvitation_Validation(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	cases := []CreateInput{
		{DisplayName: "", InvitationCode: "X", PartyMembers: []string{"a"}},
		{DisplayName: "X", InvitationCode: " ", PartyMembers: []string{"a"}},
		{DisplayName: "X", InvitationCode: "X", PartyMembers: nil},
		{DisplayName: "X", InvitationCode: "X", PartyMembers: []string{" ", ""}},
	}
	for _, in := range cases {
		_, err := s.CreateInvitation(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}

	_, err := s.CreateInvitation(ctx, CreateInput{DisplayName: "X", InvitationCode: "bad\tcode", PartyMembers: []string{"a"}})
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = s.CreateInvitation(ctx, CreateInput{DisplayName: "X", InvitationCode: "X", PartyMembers: []string{"a", "a"}})
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestCreateInvitation_TrimsMembers(t *testing.T) {
	s := setupService(t)
	inv, err := s.CreateInvitation(context.Background(), CreateInput{
		DisplayName: " Smiths ", InvitationCode: " SMITH ", PartyMembers: []string{" John ", "", "Jane"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Smiths", inv.DisplayName)
	assert.Equal(t, "SMITH", inv.InvitationCode)
	assert.Equal(t, []string{"John", "Jane"}, []string(inv.PartyMembers))
}

func TestDeleteInvitation(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	inv := createSmiths(t, s)

	assert.ErrorIs(t, s.DeleteInvitation(ctx, "abc"), ErrInvalidID)
	assert.ErrorIs(t, s.DeleteInvitation(ctx, "999"), ErrNotFound)
	require.NoError(t, s.DeleteInvitation(ctx, "1"))
	assert.Equal(t, uint(1), inv.ID)

	got, err := s.Resolve(ctx, "SMITH2026")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_MissIsNotAnError(t *testing.T) {
	s := setupService(t)
	inv, err := s.Resolve(context.Background(), "NOPE")
	assert.NoError(t, err)
	assert.Nil(t, inv)

	inv, err = s.Resolve(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, inv)
}

func TestRespond_UnknownMemberAndCode(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	createSmiths(t, s)

	_, err := s.Respond(ctx, "SMITH2026", "Tommy Smith", domain.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrUnknownMember)

	_, err = s.Respond(ctx, "NOPE", "John Smith", domain.ActionAccept)
	assert.ErrorIs(t, err, ErrNotFound)
}

// racingRepo lets another writer sneak in before the first n updates.
type racingRepo struct {
	Repository
	races int
	other func(ctx context.Context) error
}

func (r *racingRepo) Update(ctx context.Context, inv *domain.Invitation) error {
	if r.races > 0 {
		r.races--
		if err := r.other(ctx); err != nil {
			return err
		}
	}
	return r.Repository.Update(ctx, inv)
}

func TestRespond_RetriesAfterConflictWithoutLosingUpdates(t *testing.T) {
	base, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, base.Create(ctx, domain.NewInvitation("Smiths", "SMITH2026", []string{"John Smith", "Jane Smith"})))

	repo := &racingRepo{Repository: base, races: 1, other: func(ctx context.Context) error {
		inv, err := base.FindByCode(ctx, "SMITH2026")
		if err != nil {
			return err
		}
		if err := inv.Decline("Jane Smith"); err != nil {
			return err
		}
		return base.Update(ctx, inv)
	}}
	s := &Service{Repo: repo}

	inv, err := s.Respond(ctx, "SMITH2026", "John Smith", domain.ActionAccept)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Jane Smith", "John Smith"}, []string(inv.SubmittedRSVPMembers))
	assert.Equal(t, []string{"John Smith"}, []string(inv.AcceptingMembers))
}

func TestRespond_GivesUpAfterRepeatedConflicts(t *testing.T) {
	base, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, base.Create(ctx, domain.NewInvitation("Smiths", "SMITH2026", []string{"John Smith", "Jane Smith"})))

	toggle := false
	repo := &racingRepo{Repository: base, races: 10, other: func(ctx context.Context) error {
		inv, err := base.FindByCode(ctx, "SMITH2026")
		if err != nil {
			return err
		}
		toggle = !toggle
		if toggle {
			_ = inv.Accept("Jane Smith")
		} else {
			_ = inv.Decline("Jane Smith")
		}
		return base.Update(ctx, inv)
	}}
	s := &Service{Repo: repo, RespondAttempts: 2}

	_, err := s.Respond(ctx, "SMITH2026", "John Smith", domain.ActionAccept)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestCreateInvitation_FreeFormCodes(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	for _, code := range []string{"SMITH 2026", "Müller2026", "smith.2026", "A+B"} {
		inv, err := s.CreateInvitation(ctx, CreateInput{DisplayName: "Party", InvitationCode: code, PartyMembers: []string{"Guest"}})
		require.NoError(t, err, code)
		assert.Equal(t, code, inv.InvitationCode)

		got, err := s.Resolve(ctx, code)
		require.NoError(t, err)
		require.NotNil(t, got, code)
		assert.Equal(t, inv.ID, got.ID)
	}
}
