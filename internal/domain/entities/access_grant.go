package entities

import "time"

// AccessGrant is the immutable audit record of a participant addition.
type AccessGrant struct {
	ID           uint
	EventID      uint
	GivenByID    uint
	ReceivedByID uint
	GrantedAt    time.Time
}

// AccessGrantFilter narrows an access-log listing. Zero IDs are ignored.
type AccessGrantFilter struct {
	GivenByID    uint
	ReceivedByID uint
	Skip         int
	Limit        int
}
