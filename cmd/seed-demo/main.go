// cmd/seed-demo - Seeds an admin account and a demo challenge with two teams.
// Intended for local development and classroom dry runs.
package main

import (
	"flag"
	"fmt"
	"log"

	"codeclash/database"
	"codeclash/models"
	"codeclash/services"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	adminUser := flag.String("admin-user", "instructor", "admin username to create")
	adminPass := flag.String("admin-pass", "", "admin password (required)")
	flag.Parse()

	if *adminPass == "" {
		log.Fatal("Usage: seed-demo -admin-pass <password> [-admin-user <name>]")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.AdminUser{Username: *adminUser, Password: string(hash)}
	if err := db.Where("username = ?", *adminUser).FirstOrCreate(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Printf("✅ Admin user ready: %s (id=%d)", admin.Username, admin.ID)

	challenges := services.NewChallengeService(db)
	challenge, err := challenges.CreateChallenge(
		"Landing Page Sprint",
		"Build the best product landing page in 45 minutes.",
		"HTML and CSS only. No external assets. Judged on layout, typography and polish.",
		45,
	)
	if err != nil {
		log.Fatal("Failed to create challenge:", err)
	}

	_, err = challenges.AssignTeams(challenge.ID, []services.TeamAssignment{
		{Name: "Crimson", Color: "#d64545", Participants: []string{"Ada", "Grace"}},
		{Name: "Teal", Color: "#2a9d8f", Participants: []string{"Linus", "Margaret"}},
	})
	if err != nil {
		log.Fatal("Failed to assign teams:", err)
	}

	fmt.Println()
	fmt.Printf("Challenge seeded: %s\n", challenge.Title)
	fmt.Printf("Access code:      %s\n", challenge.AccessCode)
	fmt.Println("Join as Ada, Grace, Linus or Margaret with that code.")
}
