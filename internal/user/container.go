package user

import (
	"time"

	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/storage"
)

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, store storage.Store, tokenTTL time.Duration, cookieDomain string) *UserContainer {
	repo := NewUserRepository(db)
	service := NewUserService(repo, store, tokenTTL)
	handler := NewHandler(service, cookieDomain)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
