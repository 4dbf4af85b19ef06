package domain

import "errors"

var (
	ErrUnknownMember = errors.New("Member is not part of this invitation")
	ErrUnknownAction = errors.New("Response must be one of accept, decline or reset")
)
