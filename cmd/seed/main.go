// Command main fills the configured database with fake DevConnector data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated content")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.NewSeeder(db).Run(context.Background(), seed.Options{
		Users: *numUsers,
		Posts: *numPosts,
		Clean: *shouldClean,
		Seed:  *seedValue,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d profiles, %d posts", summary.Users, summary.Profiles, summary.Posts)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
