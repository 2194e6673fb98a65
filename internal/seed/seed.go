package seed

import (
	"fmt"
	"log"
	"math/rand"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryNames = []string{
	"technology", "travel", "food", "science", "music",
	"books", "fitness", "finance", "gaming", "art",
}

var tagNames = []string{
	"Go", "Django", "Postgres", "Redis", "Docker",
	"Recipes", "Reviews", "Tutorials", "Opinion", "Deep Dive",
	"Beginner Friendly", "Release Notes",
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seedable rows. Association tables go first so
// foreign keys never block the wipe.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"likes", "ratings", "post_tags", "comments",
		"posts", "tags", "categories", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// Seed populates the database with users, taxonomy, posts, comments,
// likes and ratings.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}

	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := s.factory.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}
		categories = append(categories, category)
	}

	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := s.factory.CreateTag(name)
		if err != nil {
			return fmt.Errorf("creating tag: %w", err)
		}
		tags = append(tags, *tag)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]
		category := categories[rand.Intn(len(categories))]
		postTags := pickTags(tags)

		post, err := s.factory.CreatePost(author, category, postTags)
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}

	// Engagement: comments, likes and ratings with uneven spread so
	// rankings are non-trivial.
	for _, post := range posts {
		for i := 0; i < rand.Intn(5); i++ {
			commenter := users[rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}

		for _, user := range users {
			if rand.Intn(100) < 30 {
				like := models.Like{PostID: post.ID, UserID: user.ID}
				if err := s.db.Create(&like).Error; err != nil {
					return fmt.Errorf("creating like: %w", err)
				}
			}
			if rand.Intn(100) < 20 {
				rating := models.Rating{
					PostID: post.ID,
					UserID: user.ID,
					Rating: rand.Intn(models.RatingMax) + 1,
				}
				if err := s.db.Create(&rating).Error; err != nil {
					return fmt.Errorf("creating rating: %w", err)
				}
			}
		}
	}

	log.Printf("Seeded %d users, %d categories, %d tags, %d posts",
		len(users), len(categories), len(tags), len(posts))
	return nil
}

func pickTags(tags []models.Tag) []models.Tag {
	n := rand.Intn(4)
	if n == 0 {
		return nil
	}
	picked := make([]models.Tag, 0, n)
	seen := make(map[uint]bool, n)
	for len(picked) < n {
		t := tags[rand.Intn(len(tags))]
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		picked = append(picked, t)
	}
	return picked
}
