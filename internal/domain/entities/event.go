package entities

import (
	"slices"
	"time"
)

// Role is an event role stored in the membership registry. The owner holds
// every role implicitly and is never listed.
type Role string

const (
	RoleParticipant     Role = "participant"
	RoleAccessModerator Role = "access_moderator"
	RoleVotingModerator Role = "voting_moderator"
)

// ModeratorKind selects which moderator set addModerator targets.
type ModeratorKind string

const (
	ModeratorAccess ModeratorKind = "access"
	ModeratorVoting ModeratorKind = "voting"
)

// Role maps the kind to its registry role; ok is false for unknown kinds.
func (k ModeratorKind) Role() (Role, bool) {
	switch k {
	case ModeratorAccess:
		return RoleAccessModerator, true
	case ModeratorVoting:
		return RoleVotingModerator, true
	default:
		return "", false
	}
}

// UserSet is a set of user IDs.
type UserSet map[uint]struct{}

func NewUserSet(ids ...uint) UserSet {
	s := make(UserSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s UserSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// Add reports whether id was newly inserted.
func (s UserSet) Add(id uint) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// IDs returns the members in ascending order.
func (s UserSet) IDs() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Event is a scoped container for polls and role-bearing users.
type Event struct {
	ID               uint
	Name             string
	Description      string
	OwnerID          uint
	Participants     UserSet
	AccessModerators UserSet
	VotingModerators UserSet
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Members returns the set backing role, allocating it if needed.
func (e *Event) Members(role Role) UserSet {
	switch role {
	case RoleParticipant:
		if e.Participants == nil {
			e.Participants = UserSet{}
		}
		return e.Participants
	case RoleAccessModerator:
		if e.AccessModerators == nil {
			e.AccessModerators = UserSet{}
		}
		return e.AccessModerators
	case RoleVotingModerator:
		if e.VotingModerators == nil {
			e.VotingModerators = UserSet{}
		}
		return e.VotingModerators
	default:
		return nil
	}
}

// HasMember reports whether userID is listed in any role set.
func (e *Event) HasMember(userID uint) bool {
	return e.Participants.Has(userID) || e.AccessModerators.Has(userID) || e.VotingModerators.Has(userID)
}
