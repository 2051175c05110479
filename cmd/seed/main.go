// Command seed populates a development database with fake accounts, poems,
// comments, replies and likes.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"verse/internal/auth"
	"verse/internal/config"
	"verse/internal/database"
	"verse/internal/models"
	"verse/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	numUsers      = 12
	poemsPerUser  = 3
	seedPassword  = "versepoetry!"
	likesPerPoem  = 4
	maxCommentLen = 3
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	poemRepo := repository.NewPoemRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	var users []*models.User
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName: gofakeit.Name(),
			Password:    hash,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users (password %q)", len(users), seedPassword)

	var poems []*models.Poem
	for _, u := range users {
		for i := 0; i < poemsPerUser; i++ {
			poem := &models.Poem{
				Title:       gofakeit.Sentence(rand.Intn(4) + 2),
				Content:     gofakeit.Paragraph(2, 4, 8, "\n"),
				UserID:      u.ID,
				Username:    u.Username,
				DisplayName: u.DisplayName,
			}
			if err := poemRepo.Create(ctx, poem); err != nil {
				log.Fatalf("Failed to create poem: %v", err)
			}
			poems = append(poems, poem)
		}
	}
	log.Printf("Created %d poems", len(poems))

	commentCount := 0
	for _, p := range poems {
		for i := 0; i < rand.Intn(maxCommentLen+1); i++ {
			author := users[rand.Intn(len(users))]
			comment := &models.Comment{
				PoemID:      p.ID,
				Username:    author.Username,
				DisplayName: author.DisplayName,
				Content:     gofakeit.Sentence(rand.Intn(10) + 3),
			}
			if err := commentRepo.AddComment(ctx, comment); err != nil {
				log.Fatalf("Failed to create comment: %v", err)
			}
			commentCount++

			if rand.Intn(2) == 0 {
				replier := users[rand.Intn(len(users))]
				reply := &models.Reply{
					CommentID:   comment.ID,
					Username:    replier.Username,
					DisplayName: replier.DisplayName,
					Content:     gofakeit.Sentence(rand.Intn(8) + 3),
				}
				if err := commentRepo.AddReply(ctx, p.ID, reply); err != nil {
					log.Fatalf("Failed to create reply: %v", err)
				}
			}
		}
	}
	log.Printf("Created %d comments", commentCount)

	likeCount := 0
	for _, p := range poems {
		for i := 0; i < rand.Intn(likesPerPoem+1); i++ {
			liker := users[rand.Intn(len(users))]
			if liker.ID == p.UserID {
				continue
			}
			if err := poemRepo.Like(ctx, liker.ID, p.ID); err != nil {
				log.Fatalf("Failed to create like: %v", err)
			}
			likeCount++
		}
	}
	log.Printf("Created up to %d likes", likeCount)

	log.Println("Seeding complete")
}
