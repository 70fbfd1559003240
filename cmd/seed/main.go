package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/manangupta12/mock-interviews-ai/internal/config"
	"github.com/manangupta12/mock-interviews-ai/internal/db"
	"github.com/manangupta12/mock-interviews-ai/internal/questionbank"
)

func main() {
	file := flag.String("file", "database/questions.yaml", "question seed file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	qs, err := questionbank.LoadSeedFile(*file)
	if err != nil {
		log.Fatalf("load %s: %v", *file, err)
	}

	store := questionbank.NewSQLStore(dbh)
	for _, q := range qs {
		if err := store.Put(ctx, q); err != nil {
			log.Fatalf("seed %q: %v", q.Title, err)
		}
	}
	log.Printf("seeded %d questions from %s", len(qs), *file)
}
