package main

import (
	"flag"
	"log"

	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "admin@example.com", "account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}

	// 3. Find the account
	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update
	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *email)
}
