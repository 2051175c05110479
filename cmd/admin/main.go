// Package main provides admin maintenance utilities for Verse.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"verse/internal/config"
	"verse/internal/database"
	"verse/internal/models"
	"verse/internal/repository"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go reconcile <poem_id>  - Rebuild one poem's like counter from its like rows")
		fmt.Println("  go run ./cmd/admin/main.go reconcile-all        - Rebuild every poem's like counter")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	poems := repository.NewPoemRepository(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "reconcile":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go reconcile <poem_id>")
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			log.Fatalf("Invalid poem id %q", os.Args[2])
		}
		reconcileOne(ctx, poems, uint(id))

	case "reconcile-all":
		reconcileAll(ctx, db, poems)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func reconcileOne(ctx context.Context, poems repository.PoemRepository, poemID uint) {
	if err := poems.ReconcileLikeCount(ctx, poemID); err != nil {
		log.Fatalf("Failed to reconcile poem %d: %v", poemID, err)
	}
	count, err := poems.CountLikes(ctx, poemID)
	if err != nil {
		log.Fatalf("Failed to count likes for poem %d: %v", poemID, err)
	}
	fmt.Printf("Poem %d likes_count set to %d\n", poemID, count)
}

func reconcileAll(ctx context.Context, db *gorm.DB, poems repository.PoemRepository) {
	var poemIDs []uint
	if err := db.WithContext(ctx).Model(&models.Poem{}).Pluck("id", &poemIDs).Error; err != nil {
		log.Fatalf("Failed to list poems: %v", err)
	}

	for _, id := range poemIDs {
		if err := poems.ReconcileLikeCount(ctx, id); err != nil {
			log.Printf("Failed to reconcile poem %d: %v", id, err)
			continue
		}
	}
	fmt.Printf("Reconciled %d poems\n", len(poemIDs))
}
