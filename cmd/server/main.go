package main

import (
	"log"
	"net/http"
	"os"

	"pears2pears/internal/config"
	"pears2pears/internal/db"
	"pears2pears/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		var err error
		conn, err = db.Open()
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := db.ConfigurePool(conn, cfg); err != nil {
			log.Fatalf("database pool setup failed: %v", err)
		}
		if cfg.DBAutoMigrate {
			if err := db.Migrate(conn); err != nil {
				log.Fatalf("database migration failed: %v", err)
			}
		}
		importCards(conn, cfg.CardsPath)
	} else {
		log.Printf("DATABASE_URL not set; games are kept in memory only")
	}

	srv := server.New(conn, cfg)
	defer srv.Close()
	restored, err := srv.RestoreActiveGames()
	if err != nil {
		log.Fatalf("restoring games failed: %v", err)
	}
	if restored > 0 {
		log.Printf("restored %d active games", restored)
	}

	log.Printf("pears2pears server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

// importCards seeds the card library from the configured file when present.
func importCards(conn *gorm.DB, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	records, err := db.ReadCardFile(path)
	if err != nil {
		log.Printf("failed to read cards path=%s error=%v", path, err)
		return
	}
	inserted, err := db.NewLibrary(conn).Import(records)
	if err != nil {
		log.Printf("failed to import cards path=%s error=%v", path, err)
		return
	}
	log.Printf("card library ready path=%s read=%d inserted=%d", path, len(records), inserted)
}
