package application

import (
	"context"
	"errors"
	"testing"

	"eventpoll/internal/domain"
	"eventpoll/internal/ports/input"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.identity.Register(ctx, input.RegisterUser{Email: " Ann@Example.com ", Password: "pw", IsSuperuser: true})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ann@example.com" || u.IsSuperuser || !u.IsActive {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := env.identity.Register(ctx, input.RegisterUser{Email: "ann@example.com", Password: "x"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := env.identity.Register(ctx, input.RegisterUser{Email: "", Password: "x"}); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}

	token, err := env.identity.Login(ctx, "ANN@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := env.identity.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated as %d, want %d", got.ID, u.ID)
	}

	if _, err := env.identity.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.identity.Login(ctx, "nobody@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.identity.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("garbage token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := env.identity.Authenticate(ctx, "tok-999"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("unknown user token: expected ErrInvalidToken, got %v", err)
	}
}

func TestCreateUserNotifiesInBackground(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plain := env.user(t, "plain")
	root := env.superuser(t)

	if _, err := env.identity.CreateUser(ctx, plain, input.RegisterUser{Email: "x@example.com", Password: "pw"}); !errors.Is(err, domain.ErrSuperuserRequired) {
		t.Fatalf("expected ErrSuperuserRequired, got %v", err)
	}
	env.notifier.err = errors.New("webhook down")
	created, err := env.identity.CreateUser(ctx, root, input.RegisterUser{Email: "admin2@example.com", Password: "pw", IsSuperuser: true})
	if err != nil {
		t.Fatalf("create user despite notifier failure: %v", err)
	}
	env.identity.Wait()
	if env.notifier.count() != 1 || env.notifier.users[0].ID != created.ID {
		t.Fatalf("expected one notification for user %d, got %+v", created.ID, env.notifier.users)
	}
	if !created.IsSuperuser {
		t.Fatal("superuser flag should be kept on admin creation")
	}
}

func TestUserReads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "a")
	b := env.user(t, "b")
	root := env.superuser(t)

	if _, err := env.identity.GetUser(ctx, a, a.ID); err != nil {
		t.Fatalf("self read: %v", err)
	}
	if _, err := env.identity.GetUser(ctx, a, b.ID); !errors.Is(err, domain.ErrNotEnoughPermissions) {
		t.Fatalf("expected ErrNotEnoughPermissions, got %v", err)
	}
	if _, err := env.identity.GetUser(ctx, root, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	users, err := env.identity.ListUsers(ctx, root, 1, 1)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].ID != b.ID {
		t.Fatalf("unexpected page %+v", users)
	}
	if _, err := env.identity.ListUsers(ctx, a, 0, 0); !errors.Is(err, domain.ErrSuperuserRequired) {
		t.Fatalf("expected ErrSuperuserRequired, got %v", err)
	}
}

func TestEnsureSuperuserIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for range 2 {
		if err := env.identity.EnsureSuperuser(ctx, "admin@example.com", "pw"); err != nil {
			t.Fatalf("ensure superuser: %v", err)
		}
	}
	u, err := env.store.Users().FindByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !u.IsSuperuser {
		t.Fatal("seeded user must be a superuser")
	}
	all, _ := env.store.Users().List(ctx, 0, 0)
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 user, got %d", len(all))
	}
}
