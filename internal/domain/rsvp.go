package domain

import "strings"

// MemberStatus is derived from the two response sets; it is never persisted.
type MemberStatus string

const (
	StatusPending  MemberStatus = "pending"
	StatusAccepted MemberStatus = "accepted"
	StatusDeclined MemberStatus = "declined"
)

// Action is a guest-initiated RSVP transition.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionReset   Action = "reset"
)

// ParseAction accepts accept/decline/reset in any case.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionAccept:
		return ActionAccept, nil
	case ActionDecline:
		return ActionDecline, nil
	case ActionReset:
		return ActionReset, nil
	}
	return "", ErrUnknownAction
}

// MemberRSVP pairs a guest with their derived status.
type MemberRSVP struct {
	Name   string       `json:"name"`
	Status MemberStatus `json:"status"`
}

// Status derives member's state from the response sets.
func (i *Invitation) Status(member string) (MemberStatus, error) {
	if !i.HasMember(member) {
		return "", ErrUnknownMember
	}
	return i.status(member), nil
}

func (i *Invitation) status(member string) MemberStatus {
	if !contains(i.SubmittedRSVPMembers, member) {
		return StatusPending
	}
	if contains(i.AcceptingMembers, member) {
		return StatusAccepted
	}
	return StatusDeclined
}

// Statuses lists every party member in guest-list order.
func (i *Invitation) Statuses() []MemberRSVP {
	out := make([]MemberRSVP, 0, len(i.PartyMembers))
	for _, m := range i.PartyMembers {
		out = append(out, MemberRSVP{Name: m, Status: i.status(m)})
	}
	return out
}

// Tally counts members per status.
type Tally struct {
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Pending  int `json:"pending"`
	Total    int `json:"total"`
}

func (t *Tally) Add(o Tally) {
	t.Accepted += o.Accepted
	t.Declined += o.Declined
	t.Pending += o.Pending
	t.Total += o.Total
}

func (i *Invitation) Tally() Tally {
	var t Tally
	for _, m := range i.PartyMembers {
		switch i.status(m) {
		case StatusAccepted:
			t.Accepted++
		case StatusDeclined:
			t.Declined++
		default:
			t.Pending++
		}
		t.Total++
	}
	return t
}

// Accept marks member as responded and attending. Accepting twice is a no-op.
func (i *Invitation) Accept(member string) error {
	if !i.HasMember(member) {
		return ErrUnknownMember
	}
	i.AcceptingMembers = addMember(i.AcceptingMembers, member)
	i.SubmittedRSVPMembers = addMember(i.SubmittedRSVPMembers, member)
	return nil
}

// Decline marks member as responded and not attending.
func (i *Invitation) Decline(member string) error {
	if !i.HasMember(member) {
		return ErrUnknownMember
	}
	i.AcceptingMembers = removeMember(i.AcceptingMembers, member)
	i.SubmittedRSVPMembers = addMember(i.SubmittedRSVPMembers, member)
	return nil
}

// Reset returns member to pending.
func (i *Invitation) Reset(member string) error {
	if !i.HasMember(member) {
		return ErrUnknownMember
	}
	i.AcceptingMembers = removeMember(i.AcceptingMembers, member)
	i.SubmittedRSVPMembers = removeMember(i.SubmittedRSVPMembers, member)
	return nil
}

// Apply dispatches a parsed action.
func (i *Invitation) Apply(action Action, member string) error {
	switch action {
	case ActionAccept:
		return i.Accept(member)
	case ActionDecline:
		return i.Decline(member)
	case ActionReset:
		return i.Reset(member)
	}
	return ErrUnknownAction
}

// Consistent reports whether the subset invariant holds.
func (i *Invitation) Consistent() bool {
	for _, m := range i.AcceptingMembers {
		if !contains(i.SubmittedRSVPMembers, m) {
			return false
		}
	}
	for _, m := range i.SubmittedRSVPMembers {
		if !contains(i.PartyMembers, m) {
			return false
		}
	}
	return true
}

func addMember(set []string, name string) []string {
	if contains(set, name) {
		return set
	}
	return append(set, name)
}

func removeMember(set []string, name string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}
