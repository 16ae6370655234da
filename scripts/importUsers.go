package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"lms/config"
	authController "lms/controllers/auth"
	"lms/database"
	"lms/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Imports users from a CSV with the header name,email,password,role.
// Existing emails are promoted to the given role; the password is left untouched.
func main() {
	path := flag.String("file", "users.csv", "CSV file to import")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	inserted, promoted, skipped := 0, 0, 0
	db := database.Database.Db

	for i, row := range records[1:] {
		name := getField(row, headerIndex, "name")
		email := strings.ToLower(getField(row, headerIndex, "email"))
		password := getField(row, headerIndex, "password")
		role := strings.ToUpper(getField(row, headerIndex, "role"))
		if role == "" {
			role = models.RoleUser
		}

		if email == "" || (role != models.RoleUser && role != models.RoleAdmin) {
			log.Printf("Row %d: missing email or invalid role %q, skipped", i+2, role)
			skipped++
			continue
		}

		var existing models.User
		err := db.Where("email = ? AND is_deleted = ?", email, false).First(&existing).Error
		switch {
		case err == nil:
			if err := promote(db, &existing, role); err != nil {
				log.Printf("Row %d: error promoting %s: %v", i+2, email, err)
				continue
			}
			promoted++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if len(password) < 8 {
				log.Printf("Row %d: password for %s must be at least 8 characters, skipped", i+2, email)
				skipped++
				continue
			}
			if err := create(db, name, email, password, role); err != nil {
				log.Printf("Row %d: error inserting %s: %v", i+2, email, err)
				continue
			}
			inserted++
		default:
			log.Printf("Row %d: error looking up %s: %v", i+2, email, err)
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Promoted: %d", promoted)
	log.Printf("Skipped: %d", skipped)
}

func create(db *gorm.DB, name, email, password, role string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{Name: name, Email: email, Password: string(hashed), Role: role}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return authController.SeedPermissions(tx, role, user.ID)
	})
}

func promote(db *gorm.DB, user *models.User, role string) error {
	if user.Role == role {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("role", role).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Permission{}).Where("user_id = ?", user.ID).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return authController.SeedPermissions(tx, role, user.ID)
	})
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
