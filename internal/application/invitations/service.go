package invitations

import (
	"context"
	"errors"
	"strings"

	"wedding-backend/internal/domain"
	"wedding-backend/internal/pkg/validation"
)

const defaultRespondAttempts = 3

// Service holds the admin invitation operations and the guest RSVP flow.
type Service struct {
	Repo Repository
	// RespondAttempts bounds re-reads after a revision conflict.
	RespondAttempts int
}

type CreateInput struct {
	DisplayName    string
	InvitationCode string
	PartyMembers   []string
}

// CreateInvitation validates the input and stores a record with every member pending.
func (s *Service) CreateInvitation(ctx context.Context, in CreateInput) (*domain.Invitation, error) {
	name := strings.TrimSpace(in.DisplayName)
	code := strings.TrimSpace(in.InvitationCode)
	members := validation.NormalizeMembers(in.PartyMembers)
	if name == "" || code == "" || len(members) == 0 {
		return nil, ErrInvalidInput
	}
	if !validation.IsValidInvitationCode(code) {
		return nil, ErrInvalidCode
	}
	if validation.HasDuplicates(members) {
		return nil, ErrDuplicateMember
	}

	inv := domain.NewInvitation(name, code, members)
	if err := s.Repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// DeleteInvitation permanently removes the record identified by rawID.
func (s *Service) DeleteInvitation(ctx context.Context, rawID string) error {
	id, ok := validation.ParseID(rawID)
	if !ok {
		return ErrInvalidID
	}
	return s.Repo.Delete(ctx, id)
}

// Summary is one row of the admin dashboard.
type Summary struct {
	Invitation domain.Invitation   `json:"invitation"`
	Members    []domain.MemberRSVP `json:"members"`
	Tally      domain.Tally        `json:"tally"`
}

type ListResult struct {
	Invitations []Summary    `json:"invitations"`
	Totals      domain.Tally `json:"totals"`
}

// ListInvitations returns every record with per-party and overall RSVP counts.
func (s *Service) ListInvitations(ctx context.Context) (*ListResult, error) {
	all, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := &ListResult{Invitations: make([]Summary, 0, len(all))}
	for i := range all {
		inv := all[i]
		tally := inv.Tally()
		out.Totals.Add(tally)
		out.Invitations = append(out.Invitations, Summary{
			Invitation: inv,
			Members:    inv.Statuses(),
			Tally:      tally,
		})
	}
	return out, nil
}

// Resolve looks up a guest's code. A miss returns (nil, nil): content simply stays gated.
func (s *Service) Resolve(ctx context.Context, code string) (*domain.Invitation, error) {
	if code == "" {
		return nil, nil
	}
	inv, err := s.Repo.FindByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Respond applies one RSVP transition for member and persists it. Revision
// conflicts are retried against a fresh read, since each transition only
// touches its own member.
func (s *Service) Respond(ctx context.Context, code, member string, action domain.Action) (*domain.Invitation, error) {
	attempts := s.RespondAttempts
	if attempts <= 0 {
		attempts = defaultRespondAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		inv, err := s.Repo.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := inv.Apply(action, member); err != nil {
			return nil, err
		}
		err = s.Repo.Update(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
