package main

import (
	"context"
	"log"

	"gorm.io/gorm"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// seedUser describes a user to create if missing.
type seedUser struct {
	Username string
	Email    string
	Password string
	Role     string
}

var seedUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin},
	{Username: "alice", Email: "alice@example.com", Password: "alice123", Role: model.RoleUser},
	{Username: "bob", Email: "bob@example.com", Password: "bob123", Role: model.RoleUser},
}

var seedPosts = []struct {
	AuthorUsername string
	Title          string
	Content        string
}{
	{AuthorUsername: "alice", Title: "Hello world", Content: "First post on the blog."},
	{AuthorUsername: "bob", Title: "Go notes", Content: "Some things I learned about Go this week."},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.Like{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	created := 0
	users := make(map[string]*model.User, len(seedUsers))
	for _, su := range seedUsers {
		existing, err := userRepo.FindByUsername(ctx, su.Username)
		if err == nil {
			users[su.Username] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Error checking user %s: %v", su.Username, err)
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			log.Fatalf("Error hashing password for %s: %v", su.Username, err)
		}
		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: hash,
			Role:         su.Role,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Error creating user %s: %v", su.Username, err)
		}
		users[su.Username] = user
		created++
	}
	log.Printf("Users seeded (%d new)", created)

	created = 0
	for _, sp := range seedPosts {
		author, ok := users[sp.AuthorUsername]
		if !ok {
			log.Fatalf("Seed post references unknown user %s", sp.AuthorUsername)
		}
		post := &model.Post{
			Title:    sp.Title,
			Content:  sp.Content,
			AuthorID: author.ID,
		}
		if err := postRepo.Create(ctx, post); err != nil {
			log.Fatalf("Error creating post %q: %v", sp.Title, err)
		}
		created++
	}
	log.Printf("Posts seeded (%d new)", created)

	log.Println("Seed completed successfully!")
}
