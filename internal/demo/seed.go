// Package demo seeds a sample catalog so the application can be explored
// without entering data by hand.
package demo

import (
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/genres"
	"github.com/mrlokans/library-catalog/internal/database/instances"
	"github.com/mrlokans/library-catalog/internal/entities"
)

// Password is the login password shared by the seeded demo accounts.
const Password = "reading-is-fundamental"

// Generate populates the database at dbPath with genres, authors, books with
// copies, a librarian holding every permission and a patron with one loan.
// The database is created (and migrated) when absent.
func Generate(dbPath string) error {
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	genreRepo := genres.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	instanceRepo := instances.NewRepository(db.DB)

	genresByName := createGenres(genreRepo)
	authorsByName := createAuthors(authorRepo)

	librarian, patron, err := createUsers(db)
	if err != nil {
		return err
	}

	for _, seed := range demoBooks() {
		book := &entities.Book{
			Title:   seed.title,
			Summary: seed.summary,
			ISBN:    seed.isbn,
		}
		if author, ok := authorsByName[seed.author]; ok {
			book.AuthorID = &author.ID
		}
		for _, name := range seed.genres {
			if g, ok := genresByName[name]; ok {
				book.Genres = append(book.Genres, g)
			}
		}
		if err := bookRepo.Create(book); err != nil {
			log.Printf("Failed to save book %s: %v", seed.title, err)
			continue
		}
		log.Printf("Saved: %s by %s", seed.title, seed.author)

		for i := 0; i < seed.copies; i++ {
			status := entities.StatusAvailable
			if i == 0 {
				status = entities.StatusMaintenance
			}
			instance := &entities.BookInstance{
				BookID:  book.ID,
				Imprint: seed.imprint,
				Status:  status,
			}
			if err := instanceRepo.Create(instance); err != nil {
				log.Printf("Failed to save copy of %s: %v", seed.title, err)
			}
		}
	}

	loanOutSampleCopy(db, instanceRepo, patron.ID)

	log.Printf("Demo catalog generated. Librarian login: %s / %s", librarian.Username, Password)
	log.Printf("Patron login: %s / %s", patron.Username, Password)
	return nil
}

func createUsers(db *database.Database) (librarian, patron *entities.User, err error) {
	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	librarian, err = service.CreateUser("librarian", "librarian@example.com", Password, entities.AllPermissions...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create librarian: %w", err)
	}

	patron, err = service.CreateUser("patron", "patron@example.com", Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create patron: %w", err)
	}
	return librarian, patron, nil
}

func createGenres(repo *genres.Repository) map[string]entities.Genre {
	names := []string{
		"Fantasy",
		"Science Fiction",
		"Classic",
		"Poetry",
	}

	byName := make(map[string]entities.Genre)
	for _, name := range names {
		genre := &entities.Genre{Name: name}
		if err := repo.Create(genre); err != nil {
			log.Printf("Failed to create genre %s: %v", name, err)
			continue
		}
		byName[name] = *genre
	}
	return byName
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func createAuthors(repo *authors.Repository) map[string]entities.Author {
	seeds := []entities.Author{
		{FirstName: "Ursula", LastName: "Le Guin", DateOfBirth: date(1929, time.October, 21), DateOfDeath: date(2018, time.January, 22)},
		{FirstName: "Mary", LastName: "Shelley", DateOfBirth: date(1797, time.August, 30), DateOfDeath: date(1851, time.February, 1)},
		{FirstName: "Jules", LastName: "Verne", DateOfBirth: date(1828, time.February, 8), DateOfDeath: date(1905, time.March, 24)},
		{FirstName: "Emily", LastName: "Dickinson", DateOfBirth: date(1830, time.December, 10), DateOfDeath: date(1886, time.May, 15)},
	}

	byName := make(map[string]entities.Author)
	for i := range seeds {
		if err := repo.Create(&seeds[i]); err != nil {
			log.Printf("Failed to create author %s: %v", seeds[i].LastName, err)
			continue
		}
		byName[seeds[i].LastName] = seeds[i]
	}
	return byName
}

type bookSeed struct {
	title   string
	author  string
	summary string
	isbn    string
	genres  []string
	imprint string
	copies  int
}

func demoBooks() []bookSeed {
	return []bookSeed{
		{
			title:   "A Wizard of Earthsea",
			author:  "Le Guin",
			summary: "A young mage unleashes a shadow upon the world and must hunt it to its end.",
			isbn:    "9780547773742",
			genres:  []string{"Fantasy", "Classic"},
			imprint: "Parnassus Press, 1968",
			copies:  3,
		},
		{
			title:   "Frankenstein; or, The Modern Prometheus",
			author:  "Shelley",
			summary: "A scientist assembles a living creature and recoils from what he has made.",
			isbn:    "9780141439471",
			genres:  []string{"Science Fiction", "Classic"},
			imprint: "Lackington, Hughes, 1818",
			copies:  2,
		},
		{
			title:   "Twenty Thousand Leagues Under the Seas",
			author:  "Verne",
			summary: "Captain Nemo takes three castaways on a voyage through the world's oceans aboard the Nautilus.",
			isbn:    "9780140367218",
			genres:  []string{"Science Fiction", "Classic"},
			imprint: "Pierre-Jules Hetzel, 1870",
			copies:  2,
		},
		{
			title:   "Collected Poems",
			author:  "Dickinson",
			summary: "The poems of Emily Dickinson, published largely after her death.",
			isbn:    "9780316184137",
			genres:  []string{"Poetry", "Classic"},
			imprint: "Little, Brown, 1924",
			copies:  1,
		},
	}
}

// loanOutSampleCopy puts one available copy on loan to the demo patron so the
// borrowed views have something to show.
func loanOutSampleCopy(db *database.Database, repo *instances.Repository, borrowerID uint) {
	var instance entities.BookInstance
	err := db.DB.Where("status = ?", entities.StatusAvailable).First(&instance).Error
	if err != nil {
		log.Printf("No available copy to loan out: %v", err)
		return
	}

	dueBack := time.Now().AddDate(0, 0, 14)
	if err := repo.LoanOut(instance.ID, borrowerID, dueBack); err != nil {
		log.Printf("Failed to loan out sample copy: %v", err)
		return
	}
	log.Printf("Loaned out %s until %s", instance.ID, dueBack.Format("2006-01-02"))
}
