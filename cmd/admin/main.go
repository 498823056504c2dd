// Package main provides admin account utilities for folio.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <username>             - Grant the admin role")
	fmt.Println("  go run ./cmd/admin demote <username>              - Revoke the admin role")
	fmt.Println("  go run ./cmd/admin list-admins                    - List all admins")
	fmt.Println("  go run ./cmd/admin set-password <username> [pass] - Set a password (read from stdin when omitted)")
}

func main() {
	if len(os.Args) < 2 {
		usage()
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

	users := service.NewUserService(
		repository.NewStore(db),
		auth.NewCredentialVerifier(cfg.BcryptCost),
		cfg.AdminUsername,
	)
	ctx := context.Background()

	switch os.Args[1] {
	case "promote", "demote":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		role := models.RoleAdmin
		if os.Args[1] == "demote" {
			role = models.RoleUser
		}
		user, err := users.SetRole(ctx, os.Args[2], role)
		if err != nil {
			log.Fatalf("Failed to %s %s: %v", os.Args[1], os.Args[2], err)
		}
		fmt.Printf("User %s (ID: %d) now has role %s\n", user.Username, user.ID, user.Role)

	case "list-admins":
		admins, err := users.ListAdmins(ctx)
		if err != nil {
			log.Fatalf("Failed to list admins: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found")
			return
		}
		fmt.Printf("Found %d admin(s):\n", len(admins))
		for _, a := range admins {
			fmt.Printf("  - ID: %d, Username: %s, Nickname: %s\n", a.ID, a.Username, a.Nickname)
		}

	case "set-password":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		password := ""
		if len(os.Args) > 3 {
			password = os.Args[3]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				log.Fatalf("Failed to read password: %v", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if err := users.SetPassword(ctx, os.Args[2], password); err != nil {
			log.Fatalf("Failed to set password: %v", err)
		}
		fmt.Printf("Password updated for %s\n", os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}
