package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
)

func TestClubVoteScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.user(t, "o")
	m := env.user(t, "m")
	u1 := env.user(t, "u1")

	event, err := env.events.CreateEvent(ctx, o, "Club Vote", "")
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := env.events.AddModerator(ctx, o, event.ID, m.ID, entities.ModeratorVoting); err != nil {
		t.Fatalf("add voting moderator: %v", err)
	}
	if _, err := env.events.AddParticipant(ctx, o, event.ID, u1.ID); err != nil {
		t.Fatalf("add participant: %v", err)
	}
	poll, err := env.polls.CreatePoll(ctx, m, event.ID, "Pick a movie")
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}
	a, err := env.polls.CreateAnswerOption(ctx, m, poll.ID, "A")
	if err != nil {
		t.Fatalf("option A: %v", err)
	}
	b, err := env.polls.CreateAnswerOption(ctx, m, poll.ID, "B")
	if err != nil {
		t.Fatalf("option B: %v", err)
	}
	if _, err := env.polls.SetPollState(ctx, m, poll.ID, true, env.clock.Now().Add(time.Hour)); err != nil {
		t.Fatalf("start poll: %v", err)
	}

	first, err := env.answers.SubmitAnswer(ctx, u1, poll.ID, a.ID)
	if err != nil {
		t.Fatalf("submit A: %v", err)
	}
	if _, err := env.answers.SubmitAnswer(ctx, u1, poll.ID, b.ID); !errors.Is(err, domain.ErrAnswerExists) {
		t.Fatalf("second submit: expected ErrAnswerExists, got %v", err)
	}
	env.clock.Advance(time.Minute)
	updated, err := env.answers.UpdateAnswer(ctx, u1, poll.ID, b.ID)
	if err != nil {
		t.Fatalf("update to B: %v", err)
	}
	if updated.ID != first.ID || !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("update must keep the row: first=%+v updated=%+v", first, updated)
	}

	answers, err := env.answers.ListAnswers(ctx, m, poll.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 || answers[0].AnswerOptionID != b.ID {
		t.Fatalf("expected single answer on B, got %+v", answers)
	}
}

func TestUnrelatedUserCannotVote(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	x := env.user(t, "x")
	_, poll, opts := env.runningPoll(t, owner)

	_, err := env.answers.SubmitAnswer(context.Background(), x, poll.ID, opts[0].ID)
	if !errors.Is(err, domain.ErrNotEnoughPermissions) {
		t.Fatalf("expected ErrNotEnoughPermissions, got %v", err)
	}
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission denied kind, got %q", domain.KindOf(err))
	}
}

func TestVotingModeratorCannotVote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	vm := env.user(t, "vm")
	event, poll, opts := env.runningPoll(t, owner)
	env.events.AddModerator(ctx, owner, event.ID, vm.ID, entities.ModeratorVoting)

	if _, err := env.answers.SubmitAnswer(ctx, vm, poll.ID, opts[0].ID); !errors.Is(err, domain.ErrNotEnoughPermissions) {
		t.Fatalf("expected ErrNotEnoughPermissions, got %v", err)
	}
}

func TestVotingGatedOnRunningPoll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	voter := env.user(t, "voter")
	event, poll, opts := env.runningPoll(t, owner)
	env.events.AddParticipant(ctx, owner, event.ID, voter.ID)
	if _, err := env.answers.SubmitAnswer(ctx, voter, poll.ID, opts[0].ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	env.polls.SetPollState(ctx, owner, poll.ID, false, time.Time{})

	if _, err := env.answers.UpdateAnswer(ctx, voter, poll.ID, opts[1].ID); !errors.Is(err, domain.ErrPollNotRunning) {
		t.Fatalf("update on stopped poll: expected ErrPollNotRunning, got %v", err)
	}
	fresh, _ := env.polls.CreatePoll(ctx, owner, event.ID, "Never started")
	if _, err := env.answers.SubmitAnswer(ctx, voter, fresh.ID, opts[0].ID); !errors.Is(err, domain.ErrPollNotRunning) {
		t.Fatalf("submit on created poll: expected ErrPollNotRunning, got %v", err)
	}
}

func TestUpdateAnswerErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	voter := env.user(t, "voter")
	event, poll, opts := env.runningPoll(t, owner)
	env.events.AddParticipant(ctx, owner, event.ID, voter.ID)

	if _, err := env.answers.UpdateAnswer(ctx, voter, poll.ID, opts[1].ID); !errors.Is(err, domain.ErrAnswerNotFound) {
		t.Fatalf("update without answer: expected ErrAnswerNotFound, got %v", err)
	}
	_, other, _ := env.runningPoll(t, owner)
	foreign, _ := env.polls.ListAnswerOptions(ctx, owner, other.ID)
	if _, err := env.answers.SubmitAnswer(ctx, voter, poll.ID, foreign[0].ID); !errors.Is(err, domain.ErrOptionNotInPoll) {
		t.Fatalf("foreign option: expected ErrOptionNotInPoll, got %v", err)
	}
	if _, err := env.answers.SubmitAnswer(ctx, voter, poll.ID, 999); !errors.Is(err, domain.ErrAnswerOptionNotFound) {
		t.Fatalf("missing option: expected ErrAnswerOptionNotFound, got %v", err)
	}
}

func TestConcurrentSubmitCreatesOneAnswer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	voter := env.user(t, "voter")
	event, poll, opts := env.runningPoll(t, owner)
	env.events.AddParticipant(ctx, owner, event.ID, voter.ID)

	const workers = 16
	var ok, conflict atomic.Int32
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.answers.SubmitAnswer(ctx, voter, poll.ID, opts[i%2].ID)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrAnswerExists):
				conflict.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || conflict.Load() != workers-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", workers-1, ok.Load(), conflict.Load())
	}
	answers, _ := env.answers.ListAnswers(ctx, owner, poll.ID)
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer row, got %d", len(answers))
	}
}

func TestUpdateKeepsOrderingAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")
	event, poll, opts := env.runningPoll(t, owner)
	env.events.AddParticipant(ctx, owner, event.ID, u1.ID)
	env.events.AddParticipant(ctx, owner, event.ID, u2.ID)

	env.answers.SubmitAnswer(ctx, u1, poll.ID, opts[0].ID)
	env.clock.Advance(time.Second)
	env.answers.SubmitAnswer(ctx, u2, poll.ID, opts[0].ID)
	env.clock.Advance(time.Second)
	if _, err := env.answers.UpdateAnswer(ctx, u1, poll.ID, opts[1].ID); err != nil {
		t.Fatalf("update: %v", err)
	}

	answers, _ := env.answers.ListAnswers(ctx, owner, poll.ID)
	if len(answers) != 2 || answers[0].OwnerID != u1.ID || answers[1].OwnerID != u2.ID {
		t.Fatalf("unexpected order %+v", answers)
	}
	if !answers[0].CreatedAt.Before(answers[1].CreatedAt) {
		t.Fatal("update must not move the answer after later answers")
	}
}

func TestDeleteAnswerRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")
	event, poll, opts := env.runningPoll(t, owner)
	env.events.AddParticipant(ctx, owner, event.ID, u1.ID)
	env.events.AddParticipant(ctx, owner, event.ID, u2.ID)
	a1, _ := env.answers.SubmitAnswer(ctx, u1, poll.ID, opts[0].ID)
	a2, _ := env.answers.SubmitAnswer(ctx, u2, poll.ID, opts[0].ID)

	if err := env.answers.DeleteAnswer(ctx, u2, a1.ID); !errors.Is(err, domain.ErrNotEnoughPermissions) {
		t.Fatalf("deleting someone else's answer: expected ErrNotEnoughPermissions, got %v", err)
	}
	if err := env.answers.DeleteAnswer(ctx, u1, a1.ID); err != nil {
		t.Fatalf("withdraw own answer: %v", err)
	}
	if _, err := env.answers.SubmitAnswer(ctx, u1, poll.ID, opts[1].ID); err != nil {
		t.Fatalf("resubmit after withdraw: %v", err)
	}

	env.polls.SetPollState(ctx, owner, poll.ID, false, time.Time{})
	if err := env.answers.DeleteAnswer(ctx, u2, a2.ID); !errors.Is(err, domain.ErrPollNotRunning) {
		t.Fatalf("withdraw after stop: expected ErrPollNotRunning, got %v", err)
	}
	if err := env.answers.DeleteAnswer(ctx, owner, a2.ID); err != nil {
		t.Fatalf("owner delete after stop: %v", err)
	}
}

func TestListAnswersPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	stranger := env.user(t, "stranger")
	root := env.superuser(t)
	event, poll, _ := env.runningPoll(t, owner)

	if _, err := env.answers.ListAnswers(ctx, stranger, poll.ID); !errors.Is(err, domain.ErrNotEnoughPermissions) {
		t.Fatalf("stranger list: expected ErrNotEnoughPermissions, got %v", err)
	}
	if _, err := env.answers.ListAnswersForEvent(ctx, root, event.ID); err != nil {
		t.Fatalf("superuser list: %v", err)
	}
	if _, err := env.answers.ListAllAnswers(ctx, owner, 0, 0); !errors.Is(err, domain.ErrSuperuserRequired) {
		t.Fatalf("owner list all: expected ErrSuperuserRequired, got %v", err)
	}
}
