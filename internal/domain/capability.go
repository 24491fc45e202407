package domain

import "eventpoll/internal/domain/entities"

// Capability is a permission flag derived from role membership.
type Capability uint8

const (
	CanSendAnswer Capability = 1 << iota
	CanManageVoting
	CanViewPollInfo
	CanManageAccess
)

const allCapabilities = CanSendAnswer | CanManageVoting | CanViewPollInfo | CanManageAccess

func (c Capability) String() string {
	switch c {
	case CanSendAnswer:
		return "CanSendAnswer"
	case CanManageVoting:
		return "CanManageVoting"
	case CanViewPollInfo:
		return "CanViewPollInfo"
	case CanManageAccess:
		return "CanManageAccess"
	default:
		return "Capability(?)"
	}
}

// CapabilitySet is a union of capabilities.
type CapabilitySet uint8

func (s CapabilitySet) Has(c Capability) bool { return s&CapabilitySet(c) != 0 }

func (s CapabilitySet) Empty() bool { return s == 0 }

// Resolve computes what user may do within event. Each capability holds only
// for the owner, a superuser, or a member of the set that grants it.
func Resolve(user *entities.User, event *entities.Event) CapabilitySet {
	if user == nil || event == nil {
		return 0
	}
	if user.IsSuperuser || event.OwnerID == user.ID {
		return CapabilitySet(allCapabilities)
	}
	var set CapabilitySet
	if event.AccessModerators.Has(user.ID) {
		set |= CapabilitySet(CanManageAccess)
	}
	if event.VotingModerators.Has(user.ID) {
		set |= CapabilitySet(CanManageVoting | CanViewPollInfo)
	}
	if event.Participants.Has(user.ID) {
		set |= CapabilitySet(CanSendAnswer | CanViewPollInfo)
	}
	return set
}

// Require returns ErrNotEnoughPermissions unless user holds c within event.
func Require(user *entities.User, event *entities.Event, c Capability) error {
	if !Resolve(user, event).Has(c) {
		return ErrNotEnoughPermissions
	}
	return nil
}

// CanAdministerEvent is true for the owner and superusers: metadata updates,
// deletion and moderator appointment.
func CanAdministerEvent(user *entities.User, event *entities.Event) bool {
	if user == nil || event == nil {
		return false
	}
	return user.IsSuperuser || event.OwnerID == user.ID
}

// CanRenamePoll checks ownership of the poll itself, not of its event.
func CanRenamePoll(user *entities.User, poll *entities.Poll) bool {
	if user == nil || poll == nil {
		return false
	}
	return user.IsSuperuser || poll.OwnerID == user.ID
}
