package input

import (
	"context"

	"eventpoll/internal/domain/entities"
)

type RegisterUser struct {
	Email       string
	Password    string
	FullName    string
	IsSuperuser bool
}

type IdentityUseCase interface {
	Register(ctx context.Context, in RegisterUser) (*entities.User, error)
	CreateUser(ctx context.Context, actor *entities.User, in RegisterUser) (*entities.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*entities.User, error)
	GetUser(ctx context.Context, actor *entities.User, id uint) (*entities.User, error)
	ListUsers(ctx context.Context, actor *entities.User, skip, limit int) ([]entities.User, error)
}
