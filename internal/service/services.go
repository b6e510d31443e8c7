package service

import (
	"github.com/dom/dietlog/internal/repository"
)

type Services struct {
	Meal *MealService
	User *UserService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Meal: NewMealService(repos.Meal),
		User: NewUserService(repos.User),
	}
}
