package main

import (
	"flag"
	"log"

	"go-helpdesk-api/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	flag.Parse()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	dsn := database.DSN()

	switch cmd {
	case "up":
		if err := database.MigrateUp(dsn); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		log.Println("✅ Migrations applied")
	case "status":
		if err := database.MigrateStatus(dsn); err != nil {
			log.Fatalf("❌ Status failed: %v", err)
		}
	default:
		log.Fatalf("unknown command %q (want up or status)", cmd)
	}
}
