// Offline ops CLI: inspects and repairs the campaign state directly through
// the store, without the bot or Telegram credentials.
package main

import (
	"fmt"
	"log"
	"os"

	"santagogo/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <participants|pairs|status|clear-pairs>")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 2 {
		usage()
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("Missing env DATABASE_URL")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for the admin CLI

	chat, err := storageSvc.GetBoundChat()
	if err != nil {
		log.Fatalf("failed to load bound chat: %v", err)
	}
	if chat == nil {
		log.Fatal("no chat is bound yet")
	}

	switch os.Args[1] {
	case "participants":
		participants, err := storageSvc.GetActiveParticipants(chat.ChatID)
		if err != nil {
			log.Fatalf("failed to list participants: %v", err)
		}
		fmt.Printf("Chat %d (%s): %d active participants\n", chat.ChatID, chat.Title, len(participants))
		for _, p := range participants {
			marker := " "
			if p.HasWishlist() {
				marker = "*"
			}
			fmt.Printf("%s %s (user %d)\n", marker, p.Display(), p.UserID)
		}

	case "pairs":
		exports, err := storageSvc.ExportPairs(chat.ChatID)
		if err != nil {
			log.Fatalf("failed to export pairs: %v", err)
		}
		if len(exports) == 0 {
			fmt.Println("no pairs")
			return
		}
		for _, e := range exports {
			fmt.Printf("%s -> %s\n", e.GiverDisplay(), e.ReceiverDisplay())
		}

	case "status":
		participants, err := storageSvc.GetActiveParticipants(chat.ChatID)
		if err != nil {
			log.Fatalf("failed to list participants: %v", err)
		}
		token, err := storageSvc.GetOpenJoinToken(chat.ChatID)
		if err != nil {
			log.Fatalf("failed to query open token: %v", err)
		}
		fmt.Printf("chat: %d (%s)\nparticipants: %d\nregistration open: %v\n",
			chat.ChatID, chat.Title, len(participants), token != nil)

	case "clear-pairs":
		if err := storageSvc.DeletePairs(chat.ChatID); err != nil {
			log.Fatalf("failed to clear pairs: %v", err)
		}
		fmt.Println("pairs cleared")

	default:
		usage()
	}
}
