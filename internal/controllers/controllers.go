package controllers

import (
	"roomlog/internal/database"
	"roomlog/internal/repositories"
	"roomlog/internal/services"

	authController "roomlog/internal/controllers/auth"
	recordController "roomlog/internal/controllers/records"
	reviewController "roomlog/internal/controllers/reviews"
	storeController "roomlog/internal/controllers/stores"
)

type Controllers struct {
	Auth   authController.AuthControllerInterface
	Store  storeController.StoreControllerInterface
	Record recordController.RecordControllerInterface
	Review reviewController.ReviewControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:   authController.New(repos, services, db.SQL),
		Store:  storeController.New(repos, services, db.SQL),
		Record: recordController.New(repos, services, db.SQL),
		Review: reviewController.New(repos, services, db.SQL),
	}
}
