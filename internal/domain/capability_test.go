package domain

import (
	"testing"

	"eventpoll/internal/domain/entities"
)

func testEvent() *entities.Event {
	return &entities.Event{
		ID:               1,
		OwnerID:          1,
		Participants:     entities.NewUserSet(10, 40),
		AccessModerators: entities.NewUserSet(20, 40),
		VotingModerators: entities.NewUserSet(30),
	}
}

func TestResolve(t *testing.T) {
	event := testEvent()
	tests := []struct {
		name string
		user entities.User
		want []Capability
		deny []Capability
	}{
		{
			name: "owner",
			user: entities.User{ID: 1},
			want: []Capability{CanSendAnswer, CanManageVoting, CanViewPollInfo, CanManageAccess},
		},
		{
			name: "superuser outside the registry",
			user: entities.User{ID: 99, IsSuperuser: true},
			want: []Capability{CanSendAnswer, CanManageVoting, CanViewPollInfo, CanManageAccess},
		},
		{
			name: "participant",
			user: entities.User{ID: 10},
			want: []Capability{CanSendAnswer, CanViewPollInfo},
			deny: []Capability{CanManageVoting, CanManageAccess},
		},
		{
			name: "access moderator",
			user: entities.User{ID: 20},
			want: []Capability{CanManageAccess},
			deny: []Capability{CanSendAnswer, CanManageVoting, CanViewPollInfo},
		},
		{
			name: "voting moderator",
			user: entities.User{ID: 30},
			want: []Capability{CanManageVoting, CanViewPollInfo},
			deny: []Capability{CanSendAnswer, CanManageAccess},
		},
		{
			name: "participant and access moderator",
			user: entities.User{ID: 40},
			want: []Capability{CanSendAnswer, CanViewPollInfo, CanManageAccess},
			deny: []Capability{CanManageVoting},
		},
		{
			name: "unrelated user",
			user: entities.User{ID: 50},
			deny: []Capability{CanSendAnswer, CanManageVoting, CanViewPollInfo, CanManageAccess},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(&tt.user, event)
			for _, c := range tt.want {
				if !got.Has(c) {
					t.Errorf("expected %s", c)
				}
			}
			for _, c := range tt.deny {
				if got.Has(c) {
					t.Errorf("unexpected %s", c)
				}
			}
		})
	}
}

// Non-owners must never receive voting management just for not being the owner.
func TestResolveManageVotingIffOwnerSuperuserOrVotingModerator(t *testing.T) {
	event := testEvent()
	for id := uint(0); id < 60; id++ {
		for _, super := range []bool{false, true} {
			user := entities.User{ID: id, IsSuperuser: super}
			want := id == event.OwnerID || super || event.VotingModerators.Has(id)
			if got := Resolve(&user, event).Has(CanManageVoting); got != want {
				t.Fatalf("user %d superuser=%v: CanManageVoting=%v, want %v", id, super, got, want)
			}
		}
	}
}

func TestResolveNil(t *testing.T) {
	if !Resolve(nil, testEvent()).Empty() {
		t.Fatal("nil user must resolve to no capabilities")
	}
	if !Resolve(&entities.User{ID: 1}, nil).Empty() {
		t.Fatal("nil event must resolve to no capabilities")
	}
}

func TestCanAdministerEvent(t *testing.T) {
	event := testEvent()
	if !CanAdministerEvent(&entities.User{ID: 1}, event) {
		t.Error("owner must administer")
	}
	if !CanAdministerEvent(&entities.User{ID: 7, IsSuperuser: true}, event) {
		t.Error("superuser must administer")
	}
	for _, id := range []uint{10, 20, 30} {
		if CanAdministerEvent(&entities.User{ID: id}, event) {
			t.Errorf("member %d must not administer", id)
		}
	}
}

func TestCanRenamePoll(t *testing.T) {
	poll := &entities.Poll{ID: 5, EventID: 1, OwnerID: 30}
	if !CanRenamePoll(&entities.User{ID: 30}, poll) {
		t.Error("poll owner must rename")
	}
	if CanRenamePoll(&entities.User{ID: 1}, poll) {
		t.Error("event owner is not the poll owner")
	}
	if !CanRenamePoll(&entities.User{ID: 2, IsSuperuser: true}, poll) {
		t.Error("superuser must rename")
	}
}
