package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/rvnspnz/artbid/internal/api"
	"github.com/rvnspnz/artbid/internal/logger"
	"github.com/rvnspnz/artbid/internal/models"
	"github.com/rvnspnz/artbid/internal/navigation"
	"github.com/rvnspnz/artbid/internal/session"
	"github.com/rvnspnz/artbid/internal/table"
)

var (
	version   string
	buildDate string
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// prompt reads a single trimmed line of input.
func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// auctionColumns describes the auction listings table.
func auctionColumns() []table.Column[models.Artwork] {
	return []table.Column[models.Artwork]{
		{
			ID: "title", Header: "Title", Sortable: true,
			Value: func(a models.Artwork) any { return a.Title },
			Cell:  func(a models.Artwork) string { return a.Title },
		},
		{
			ID: "artist", Header: "Artist", Sortable: true,
			Value: func(a models.Artwork) any { return a.Artist },
			Cell:  func(a models.Artwork) string { return a.Artist },
		},
		{
			ID: "type", Header: "Type", Sortable: true,
			Value: func(a models.Artwork) any { return a.Type },
			Cell:  func(a models.Artwork) string { return a.Type },
		},
		{
			ID: "currentBid", Header: "Current Bid", Sortable: true,
			Value: func(a models.Artwork) any { return a.CurrentBid },
			Cell:  func(a models.Artwork) string { return fmt.Sprintf("$%.0f", a.CurrentBid) },
		},
		{
			ID: "auctionEnds", Header: "Ends", Sortable: true,
			Value: func(a models.Artwork) any { return a.AuctionEnds },
			Cell:  func(a models.Artwork) string { return a.AuctionEnds.Format("2006-01-02 15:04") },
		},
	}
}

// repl runs the interactive shell loop, accepting commands to navigate the
// marketplace, manage the session, and browse the auction listings.
func repl(ctx context.Context, mgr *session.Manager, nav *navigation.History, view *table.View[models.Artwork]) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("artbid:%s> ", nav.Path())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, signup, logout, whoami, go <path>, back,")
			fmt.Println("  auctions, search <text>, sort <column>, next, prev, page <n>, view <#>, exit")
		case "login":
			username := prompt(scanner, "Username: ")
			password, err := promptPassword("Password: ")
			if err != nil {
				fmt.Println("could not read password:", err)
				continue
			}
			if mgr.Login(ctx, username, password) {
				fmt.Println("Logged in as", username)
			} else {
				fmt.Println("Login failed")
			}
		case "signup":
			username := prompt(scanner, "Username: ")
			email := prompt(scanner, "Email: ")
			name := prompt(scanner, "Display name (optional): ")
			password, err := promptPassword("Password: ")
			if err != nil {
				fmt.Println("could not read password:", err)
				continue
			}
			if mgr.Signup(ctx, username, email, password, name) {
				fmt.Println("Account created, welcome", username)
			} else {
				fmt.Println("Signup failed")
			}
		case "logout":
			mgr.Logout(ctx)
			fmt.Println("Logged out")
		case "whoami":
			u := mgr.User()
			if u == nil {
				fmt.Println("Not logged in")
				continue
			}
			fmt.Printf("%s <%s> role=%s\n", u.Name, u.Email, u.Role)
		case "go":
			if len(args) < 2 {
				fmt.Println("Usage: go <path>")
				continue
			}
			nav.Navigate(args[1])
			mgr.Initialize(ctx, nav.Path())
			fmt.Println("Now at", nav.Path())
		case "back":
			fmt.Println("Now at", nav.Back())
		case "auctions":
			if err := view.Reload(ctx); err != nil {
				fmt.Println("Could not load auctions, showing last known listings")
			}
			view.Render(os.Stdout)
		case "search":
			view.SetSearch(strings.TrimSpace(strings.TrimPrefix(line, "search")))
			view.Render(os.Stdout)
		case "sort":
			if len(args) < 2 {
				fmt.Println("Usage: sort <column>")
				continue
			}
			view.ClickHeader(args[1])
			view.Render(os.Stdout)
		case "next":
			view.NextPage()
			view.Render(os.Stdout)
		case "prev":
			view.PrevPage()
			view.Render(os.Stdout)
		case "page":
			if len(args) < 2 {
				fmt.Println("Usage: page <n>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Usage: page <n>")
				continue
			}
			view.GoToPage(n)
			view.Render(os.Stdout)
		case "view":
			if len(args) < 2 {
				fmt.Println("Usage: view <#>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Usage: view <#>")
				continue
			}
			page := view.Page()
			if !view.ActivateRow(n - page.Start) {
				fmt.Println("No such row on this page")
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main parses command-line flags, wires the session manager and the
// auctions view, and starts the shell.
func main() {
	var (
		baseURL     string
		storageFile string
		logLevel    string
		startPath   string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "marketplace API base URL")
	flag.StringVar(&storageFile, "s", "session.json", "path to the persisted session file")
	flag.StringVar(&logLevel, "l", "Warn", "log level")
	flag.StringVar(&startPath, "path", "/", "initial path")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("artbid Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	lg := logger.New()
	if err := lg.Init(logLevel); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Log.Sync() }()

	client, err := api.New(baseURL)
	if err != nil {
		log.Fatal(err)
	}

	nav := navigation.NewHistory(startPath)
	mgr := session.NewManager(client, session.NewStore(storageFile), nav, lg.Log)

	view, err := table.NewView(auctionColumns(), client.Items, lg.Log)
	if err != nil {
		log.Fatal(err)
	}
	view.SearchPlaceholder = "Search auctions..."
	view.OnRowView = func(a models.Artwork) {
		fmt.Printf("%s by %s (%s)\n  starting bid $%.0f, current bid $%.0f, ends %s\n",
			a.Title, a.Artist, a.Type, a.StartingBid, a.CurrentBid,
			a.AuctionEnds.Format("2006-01-02 15:04"))
	}

	ctx := context.Background()
	mgr.Initialize(ctx, nav.Path())

	repl(ctx, mgr, nav, view)
}
