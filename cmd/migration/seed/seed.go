package seed

import (
	"encoding/json"
	"time"

	"roomlog/config"
	. "roomlog/internal/models"
	"roomlog/pkg/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const seedPassword = "password1234"

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

type seedTheme struct {
	Name        string
	Genres      []string
	Difficulty  int
	PlayTime    int
	Price       string
	MaxHead     int
	Description string
}

type seedStore struct {
	Store  Store
	Themes []seedTheme
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users, err := seedUsers(db, log)
	if err != nil {
		return log.Err("failed to seed users", err)
	}

	themes, err := seedCatalog(db, log)
	if err != nil {
		return log.Err("failed to seed catalog", err)
	}

	if config.Environment == "development" && len(users) >= 3 && len(themes) > 0 {
		if err := seedRecord(db, users, themes[0], log); err != nil {
			return log.Err("failed to seed sample record", err)
		}
	}

	return nil
}

func seedUsers(db *gorm.DB, log logger.Logger) ([]User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash seed password", err)
	}

	users := []User{
		{Email: "host@example.com", Nickname: "host", PasswordHash: string(hash)},
		{Email: "ada@example.com", Nickname: "ada", PasswordHash: string(hash)},
		{Email: "grace@example.com", Nickname: "grace", PasswordHash: string(hash)},
		{Email: "linus@example.com", Nickname: "linus", PasswordHash: string(hash)},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "email = ?", users[i].Email).Error; err == nil {
			log.Info("User already exists", "email", users[i].Email)
			users[i] = existing
			continue
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return nil, log.Err("failed to create user", err, "email", users[i].Email)
		}
	}

	return users, nil
}

func seedCatalog(db *gorm.DB, log logger.Logger) ([]Theme, error) {
	stores := []seedStore{
		{
			Store: Store{
				Name:     "Lockbox Gangnam",
				Address:  "12 Teheran-ro, Gangnam-gu, Seoul",
				Phone:    stringPtr("02-555-0101"),
				Homepage: stringPtr("https://lockbox.example.com"),
			},
			Themes: []seedTheme{
				{"The Last Train", []string{"mystery", "thriller"}, 4, 70, "25000.00", 5, "Find the conductor before the final stop."},
				{"Grandma's Attic", []string{"comedy"}, 2, 60, "22000.00", 4, "Everything is where she left it, mostly."},
			},
		},
		{
			Store: Store{
				Name:    "Key & Clue Hongdae",
				Address: "88 Wausan-ro, Mapo-gu, Seoul",
			},
			Themes: []seedTheme{
				{"Deep Sea Lab", []string{"sci-fi", "horror"}, 5, 80, "28000.00", 6, "The oxygen counter is already running."},
			},
		},
	}

	var themes []Theme
	for _, entry := range stores {
		store := entry.Store
		var existing Store
		if err := db.First(&existing, "name = ?", store.Name).Error; err == nil {
			log.Info("Store already exists", "name", store.Name)
			store = existing
		} else if err := db.Create(&store).Error; err != nil {
			return nil, log.Err("failed to create store", err, "name", store.Name)
		}

		for _, t := range entry.Themes {
			genres, err := json.Marshal(t.Genres)
			if err != nil {
				return nil, log.Err("failed to encode genres", err, "theme", t.Name)
			}

			theme := Theme{
				StoreID:      store.ID,
				Name:         t.Name,
				Genres:       datatypes.JSON(genres),
				Difficulty:   t.Difficulty,
				PlayTime:     t.PlayTime,
				Price:        decimal.RequireFromString(t.Price),
				MinHeadCount: 2,
				MaxHeadCount: t.MaxHead,
				Description:  t.Description,
			}

			var existingTheme Theme
			if err := db.First(&existingTheme, "store_id = ? AND name = ?", store.ID, t.Name).Error; err == nil {
				themes = append(themes, existingTheme)
				continue
			}
			if err := db.Create(&theme).Error; err != nil {
				return nil, log.Err("failed to create theme", err, "theme", t.Name)
			}
			themes = append(themes, theme)
		}
	}

	return themes, nil
}

// seedRecord writes one record by the first user with the next two tagged as party.
func seedRecord(db *gorm.DB, users []User, theme Theme, log logger.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		record := Record{
			WriterID:  users[0].ID,
			ThemeID:   theme.ID,
			PlayDate:  time.Now().UTC().AddDate(0, 0, -7).Truncate(24 * time.Hour),
			IsSuccess: true,
			HeadCount: 3,
			HintCount: intPtr(2),
			PlayTime:  intPtr(64),
			Note:      stringPtr("Got stuck on the luggage lock for ten minutes."),
		}
		if err := tx.Create(&record).Error; err != nil {
			return log.Err("failed to create record", err)
		}

		tags := []*Tag{
			NewWriterTag(users[0].ID, record.ID),
			NewMemberTag(users[1].ID, record.ID),
			NewMemberTag(users[2].ID, record.ID),
		}
		if err := tx.Create(tags).Error; err != nil {
			return log.Err("failed to tag party", err, "recordID", record.ID)
		}

		log.Info("Seeded sample record", "recordID", record.ID, "party", 2)
		return nil
	})
}
