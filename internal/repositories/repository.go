package repositories

import (
	"roomlog/internal/database"
)

type Repository struct {
	User   UserRepository
	Store  StoreRepository
	Theme  ThemeRepository
	Record RecordRepository
	Tag    TagRepository
	Review ReviewRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:   NewUserRepository(db.Cache.User),
		Store:  NewStoreRepository(),
		Theme:  NewThemeRepository(),
		Record: NewRecordRepository(),
		Tag:    NewTagRepository(),
		Review: NewReviewRepository(),
	}
}
