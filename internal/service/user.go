package service

import (
	"context"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) List(ctx context.Context, v Viewer) ([]models.User, error) {
	if err := v.require(access.ActionViewUsers); err != nil {
		return nil, err
	}
	return s.Repo.ListUsers(ctx)
}
