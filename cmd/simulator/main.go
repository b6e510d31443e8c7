package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

var sampleMeals = []struct {
	name        string
	description string
}{
	{"Breakfast", "oatmeal with berries"},
	{"Lunch", "rice, beans and grilled chicken"},
	{"Snack", "greek yogurt"},
	{"Dinner", "vegetable soup"},
	{"Dessert", "chocolate cake"},
	{"Late snack", "potato chips"},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		seedCmd(apiURL, args)
	case "summary":
		summaryCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Meal Simulator - Development tool for populating a session with meals

USAGE:
  simulator <command> [options]

COMMANDS:
  seed      Create a user and log meals under a fresh (or given) session
  summary   Print the meal list and summary for a session
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Log 10 meals, 7 of them in-diet, under a new session
  simulator seed --count=10 --in-diet=7

  # Add meals to an existing session
  simulator seed --session=<uuid> --count=3

  # Show what a session has logged
  simulator summary --session=<uuid>`)
}

func seedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	count := fs.Int("count", 6, "Number of meals to log")
	inDiet := fs.Int("in-diet", -1, "How many of the meals are in-diet (default: about two thirds)")
	sessionID := fs.String("session", "", "Existing session id to reuse")
	name := fs.String("name", "Simulated Eater", "Name of the user to create")
	fs.Parse(args)

	if *count < 1 {
		fmt.Println("Error: --count must be at least 1")
		os.Exit(1)
	}
	if *inDiet < 0 {
		*inDiet = *count * 2 / 3
	}
	if *inDiet > *count {
		fmt.Println("Error: --in-diet cannot exceed --count")
		os.Exit(1)
	}

	client, err := NewAPIClient(apiURL, *sessionID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Meal Simulator: Seed ===")
	fmt.Println()

	fmt.Print("Creating user... ")
	email := fmt.Sprintf("eater_%d@example.com", time.Now().UnixNano()%100000)
	user, err := client.CreateUser(*name, email)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s, session: %s)\n", user.ID, client.SessionID())

	fmt.Println()
	fmt.Printf("Logging %d meals:\n", *count)
	start := time.Now().Add(-time.Duration(*count) * 4 * time.Hour)
	for i := 0; i < *count; i++ {
		sample := sampleMeals[i%len(sampleMeals)]
		valid := i < *inDiet
		at := start.Add(time.Duration(i) * 4 * time.Hour)

		if err := client.LogMeal(user.ID, sample.name, sample.description, valid, at); err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i+1, *count, err)
			os.Exit(1)
		}
		fmt.Printf("  [%d/%d] %s (in-diet: %t)\n", i+1, *count, sample.name, valid)
	}

	printSummary(client)
}

func summaryCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	sessionID := fs.String("session", "", "Session id (required)")
	fs.Parse(args)

	if *sessionID == "" {
		fmt.Println("Error: --session is required")
		fmt.Println("\nUsage: simulator summary --session=<uuid>")
		os.Exit(1)
	}

	client, err := NewAPIClient(apiURL, *sessionID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	meals, err := client.ListMeals()
	if err != nil {
		fmt.Printf("Failed to list meals: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Session %s has %d meal(s):\n", *sessionID, len(meals))
	for _, m := range meals {
		fmt.Printf("  %s  %-12s in-diet=%-5t %s\n", m.CreatedAt, m.Name, m.IsValid, m.Description)
	}

	printSummary(client)
}

func printSummary(client *APIClient) {
	summary, err := client.Summary()
	if err != nil {
		fmt.Printf("Failed to get summary: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  SESSION SUMMARY")
	fmt.Println("=========================================")
	fmt.Printf("  Session:     %s\n", client.SessionID())
	fmt.Printf("  In diet:     %d\n", summary.TotalMealsInside)
	fmt.Printf("  Off diet:    %d\n", summary.TotalMealsOutside)
	fmt.Printf("  Total:       %d\n", summary.Total)
	fmt.Println()
}
