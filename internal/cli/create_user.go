package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/opdserve/opdserve/internal/auth"
	"github.com/opdserve/opdserve/internal/config"
	"github.com/opdserve/opdserve/internal/database"
	"github.com/opdserve/opdserve/internal/database/users"
)

// CreateUserCommand creates a local account in the application database.
type CreateUserCommand struct {
	Username     string
	Password     string
	DatabasePath string
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (prompted if not specified)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (prompted if not specified)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a local user account for catalog access.\n\n")
		fmt.Fprintf(os.Stderr, "Accounts are only consulted when the server runs with AUTH_MODE=local.\n")
		fmt.Fprintf(os.Stderr, "Passwords must be at least %d characters long.\n\n", auth.MinPasswordLength)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Create an account interactively:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Create an account non-interactively:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username reader -password 'a long passphrase'\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the command
func (cmd *CreateUserCommand) Run() error {
	reader := bufio.NewReader(os.Stdin)

	if cmd.Username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		cmd.Username = strings.TrimSpace(line)
	}

	if cmd.Password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		cmd.Password = strings.TrimRight(line, "\r\n")
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

	user, err := service.CreateUser(cmd.Username, cmd.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
