package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Invitation is one invited party: its access code, its fixed guest list and
// the RSVP responses recorded so far.
//
// AcceptingMembers ⊆ SubmittedRSVPMembers ⊆ PartyMembers always holds; the
// RSVP transitions in rsvp.go are the only mutators of the two response sets.
type Invitation struct {
	ID                   uint                        `gorm:"column:id;primaryKey" json:"id"`
	DisplayName          string                      `gorm:"column:display_name;not null" json:"displayName"`
	InvitationCode       string                      `gorm:"column:invitation_code;not null;uniqueIndex" json:"invitationCode"`
	PartyMembers         datatypes.JSONSlice[string] `gorm:"column:party_members;not null" json:"partyMembers"`
	SubmittedRSVPMembers datatypes.JSONSlice[string] `gorm:"column:submitted_rsvp_members;not null" json:"submittedRSVPMembers"`
	AcceptingMembers     datatypes.JSONSlice[string] `gorm:"column:accepting_members;not null" json:"acceptingMembers"`
	Revision             int                         `gorm:"column:revision;not null;default:1" json:"revision"`
	CreatedAt            time.Time                   `json:"createdAt"`
	UpdatedAt            time.Time                   `json:"updatedAt"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// NewInvitation builds a record with every member pending.
func NewInvitation(displayName, code string, members []string) *Invitation {
	party := make(datatypes.JSONSlice[string], len(members))
	copy(party, members)
	return &Invitation{
		DisplayName:          displayName,
		InvitationCode:       code,
		PartyMembers:         party,
		SubmittedRSVPMembers: datatypes.JSONSlice[string]{},
		AcceptingMembers:     datatypes.JSONSlice[string]{},
		Revision:             1,
	}
}

// Clone returns a deep copy so callers can mutate without touching a cached record.
func (i *Invitation) Clone() *Invitation {
	out := *i
	out.PartyMembers = append(datatypes.JSONSlice[string]{}, i.PartyMembers...)
	out.SubmittedRSVPMembers = append(datatypes.JSONSlice[string]{}, i.SubmittedRSVPMembers...)
	out.AcceptingMembers = append(datatypes.JSONSlice[string]{}, i.AcceptingMembers...)
	return &out
}

// HasMember reports whether name is on the party's guest list.
func (i *Invitation) HasMember(name string) bool {
	return contains(i.PartyMembers, name)
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
