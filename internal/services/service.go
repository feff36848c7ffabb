package services

import (
	"roomlog/config"
	"roomlog/internal/database"
	"roomlog/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Auth        *AuthService
	TagParty    *TagPartyService
	ThemeStats  *ThemeStatsService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	authService, err := NewAuthService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
		Auth:        authService,
		TagParty:    NewTagPartyService(repos.User, repos.Review, repos.Tag),
		ThemeStats:  NewThemeStatsService(db, repos.Review),
	}, nil
}
