// Command main runs the database seeder for folio.
package main

import (
	"context"
	"flag"
	"log"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", 12, "Number of posts to create")
	numProjects := flag.Int("projects", 4, "Number of projects to create")
	comments := flag.Int("comments", 5, "Maximum comments per post")
	readers := flag.Int("readers", 3, "Number of demo reader accounts")
	seedValue := flag.Int64("seed", 1, "Random seed for generated content")
	shouldClean := flag.Bool("clean", false, "Remove existing content before seeding")
	manifest := flag.String("manifest", "", "Load content from a YAML manifest instead of generating it")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		AdminUsername:   cfg.AdminUsername,
		Posts:           *numPosts,
		Projects:        *numProjects,
		CommentsPerPost: *comments,
		Readers:         *readers,
		Seed:            *seedValue,
		BcryptCost:      cfg.BcryptCost,
	})
	ctx := context.Background()

	if *shouldClean {
		if err := s.Clean(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var report *seed.Report
	if *manifest != "" {
		m, err := seed.LoadManifest(*manifest)
		if err != nil {
			log.Fatalf("Failed to load manifest: %v", err)
		}
		report, err = s.Apply(ctx, m)
		if err != nil {
			log.Fatalf("Manifest seeding failed: %v", err)
		}
	} else {
		report, err = s.Run(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("Seeded %d posts, %d projects, %d comments, %d new readers",
		report.Posts, report.Projects, report.Comments, report.Readers)
}
