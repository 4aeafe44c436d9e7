package main

import (
	"flag"
	"log"

	"pears2pears/internal/config"
	"pears2pears/internal/db"
	"pears2pears/internal/game"
)

func main() {
	filePath := flag.String("file", "cards.csv", "path to cards csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	records, err := db.ReadCardFile(*filePath)
	if err != nil {
		log.Fatalf("failed to read cards: %v", err)
	}
	responses, prompts := 0, 0
	for _, record := range records {
		if record.Kind == game.KindPrompt {
			prompts++
		} else {
			responses++
		}
	}

	inserted, err := db.NewLibrary(conn).Import(records)
	if err != nil {
		log.Fatalf("failed to load cards: %v", err)
	}
	log.Printf("loaded cards file=%s responses=%d prompts=%d inserted=%d", *filePath, responses, prompts, inserted)
}
