// Package main provides admin management utilities for Inkwell.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin create-superuser <username> <email>  - Create a superuser account")
		fmt.Println("  go run ./cmd/admin promote <user_id>                    - Grant staff access")
		fmt.Println("  go run ./cmd/admin demote <user_id>                     - Revoke staff access")
		fmt.Println("  go run ./cmd/admin list-staff                           - List staff accounts")
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

	repo := repository.NewUserRepository(db)
	command := os.Args[1]

	switch command {
	case "create-superuser":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin create-superuser <username> <email>")
			os.Exit(1)
		}
		createSuperuser(repo, os.Args[2], os.Args[3])

	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		promoteToStaff(repo, os.Args[2])

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		demoteFromStaff(repo, os.Args[2])

	case "list-staff":
		listStaff(repo)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

// createSuperuser creates an account with every privilege flag set.
// The flags are not optional: a superuser is always active staff.
func createSuperuser(repo repository.UserRepository, username, email string) {
	if err := validation.ValidateUsername(username); err != nil {
		fmt.Printf("Invalid username: %v\n", err)
		os.Exit(1)
	}
	if err := validation.ValidateEmail(email); err != nil {
		fmt.Printf("Invalid email: %v\n", err)
		os.Exit(1)
	}

	fmt.Print("Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if err := validation.ValidatePassword(password); err != nil {
		fmt.Printf("Invalid password: %v\n", err)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    string(hashed),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}

	if err := repo.CreateSuperuser(context.Background(), user); err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	fmt.Printf("Created superuser %s (ID: %d)\n", user.Username, user.ID)
}

// fetchUser resolves a user_id argument through the repository.
func fetchUser(repo repository.UserRepository, userID string) *models.User {
	id, err := strconv.ParseUint(userID, 10, 32)
	if err != nil {
		fmt.Printf("Invalid user ID %q\n", userID)
		os.Exit(1)
	}

	user, err := repo.GetByID(context.Background(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}
	return user
}

func promoteToStaff(repo repository.UserRepository, userID string) {
	user := fetchUser(repo, userID)

	if user.IsStaff {
		fmt.Printf("User %s (ID: %d) is already staff\n", user.Username, user.ID)
		return
	}

	user.IsStaff = true
	if err := repo.Update(context.Background(), user); err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	fmt.Printf("Granted staff access to %s (ID: %d)\n", user.Username, user.ID)
}

func demoteFromStaff(repo repository.UserRepository, userID string) {
	user := fetchUser(repo, userID)

	if !user.IsStaff {
		fmt.Printf("User %s (ID: %d) is not staff\n", user.Username, user.ID)
		return
	}

	if user.IsSuperuser {
		fmt.Printf("User %s (ID: %d) is a superuser and cannot be demoted\n", user.Username, user.ID)
		os.Exit(1)
	}

	user.IsStaff = false
	if err := repo.Update(context.Background(), user); err != nil {
		log.Fatalf("Failed to demote user: %v", err)
	}

	fmt.Printf("Revoked staff access from %s (ID: %d)\n", user.Username, user.ID)
}

func listStaff(repo repository.UserRepository) {
	staff, err := repo.ListStaff(context.Background())
	if err != nil {
		log.Fatalf("Failed to fetch staff: %v", err)
	}

	if len(staff) == 0 {
		fmt.Println("No staff accounts found")
		return
	}

	fmt.Println("\nStaff accounts:")
	fmt.Println("─────────────────────────────────────")
	for _, u := range staff {
		role := "staff"
		if u.IsSuperuser {
			role = "superuser"
		}
		fmt.Printf("ID: %d | Username: %s | Email: %s | Role: %s\n", u.ID, u.Username, u.Email, role)
	}
	fmt.Println("─────────────────────────────────────")
}
