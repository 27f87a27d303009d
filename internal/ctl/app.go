// Package ctl implements recordsctl, the operator tool for the records service.
package ctl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/academix/records/internal/auth"
	"github.com/academix/records/internal/config"
	"github.com/academix/records/internal/database"
	"github.com/academix/records/internal/ratelimit"
	"github.com/academix/records/internal/token"
	"github.com/academix/records/internal/user"
	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var Version = "dev"

// App creates the recordsctl application
func App() *cli.App {
	return &cli.App{
		Name:    "recordsctl",
		Usage:   "AcademiX records operator tool",
		Version: Version,
		Commands: []*cli.Command{
			hashPasswordCommand(),
			issueTokenCommand(),
			verifyTokenCommand(),
			migrateCommand(),
			createUserCommand(),
			clearLockoutCommand(),
		},
	}
}

func secretFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "secret",
		Usage:   "Token signing secret",
		EnvVars: []string{"JWT_SECRET_KEY"},
	}
}

func tokenService(c *cli.Context) (*token.Service, error) {
	secret := c.String("secret")
	if secret == "" {
		return nil, cli.Exit("a signing secret is required (--secret or JWT_SECRET_KEY)", 2)
	}
	return token.NewService(secret)
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print the bcrypt hash of a password",
		ArgsUsage: "PASSWORD",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one PASSWORD argument", 2)
			}
			hash, err := auth.HashPassword(c.Args().First())
			if err != nil {
				return passwordError(err)
			}
			fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}

func issueTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "Sign a session token for a user",
		Flags: []cli.Flag{
			secretFlag(),
			&cli.Int64Flag{Name: "id", Usage: "User id", Required: true},
			&cli.StringFlag{Name: "email", Usage: "User email", Required: true},
			&cli.StringFlag{Name: "role", Usage: "admin or student", Value: token.RoleStudent},
		},
		Action: func(c *cli.Context) error {
			role := c.String("role")
			if role != token.RoleAdmin && role != token.RoleStudent {
				return cli.Exit(fmt.Sprintf("unknown role %q", role), 2)
			}
			tokens, err := tokenService(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tokens.Issue(c.Int64("id"), c.String("email"), role))
			return nil
		},
	}
}

func verifyTokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify-token",
		Usage:     "Check a session token and print its claims",
		ArgsUsage: "TOKEN",
		Flags:     []cli.Flag{secretFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one TOKEN argument", 2)
			}
			tokens, err := tokenService(c)
			if err != nil {
				return err
			}
			tokenString := strings.TrimPrefix(c.Args().First(), token.TokenTypeBearer+" ")
			claims, err := tokens.Verify(tokenString, time.Now())
			if err != nil {
				return cli.Exit("token is invalid", 1)
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"user_id":    claims.UserID,
				"email":      claims.Email,
				"role":       claims.Role,
				"issued_at":  claims.IssuedAtTime().UTC(),
				"expires_at": claims.ExpiresAtTime().UTC(),
			})
		},
	}
}

// databaseConfig reads only the DB_* settings so schema commands do not
// need Redis or a signing secret
func databaseConfig() (config.DatabaseConfig, error) {
	var cfg config.DatabaseConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load database configuration: %w", err)
	}
	return cfg, nil
}

func openDatabase(c *cli.Context) (*database.DB, error) {
	cfg, err := databaseConfig()
	if err != nil {
		return nil, err
	}
	return database.NewPostgresDB(c.Context, cfg)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create any missing tables",
		Action: func(c *cli.Context) error {
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.EnsureSchema(c.Context, db.DB); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "schema up to date")
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a login account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"RECORDS_USER_PASSWORD"}},
			&cli.StringFlag{Name: "role", Value: token.RoleStudent},
		},
		Action: func(c *cli.Context) error {
			email := auth.SanitizeEmail(c.String("email"))
			if !auth.IsValidEmail(email) {
				return cli.Exit("email format is invalid", 2)
			}
			role := c.String("role")
			if role != token.RoleAdmin && role != token.RoleStudent {
				return cli.Exit(fmt.Sprintf("unknown role %q", role), 2)
			}

			hash, err := auth.HashPassword(c.String("password"))
			if err != nil {
				return passwordError(err)
			}

			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := user.NewRepository(db.DB).Create(c.Context, email, hash, role)
			if database.IsUniqueViolation(err) {
				return cli.Exit("a user with that email already exists", 1)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created user %d (%s, %s)\n", id, email, role)
			return nil
		},
	}
}

func clearLockoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear-lockout",
		Usage: "Lift a login lockout for an email and client IP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "ip", Required: true},
			&cli.StringFlag{Name: "redis-url", EnvVars: []string{"REDIS_URL"}},
		},
		Action: func(c *cli.Context) error {
			if c.String("redis-url") == "" {
				return errors.New("a Redis URL is required (--redis-url or REDIS_URL)")
			}
			client, err := database.NewRedisClient(c.Context, c.String("redis-url"))
			if err != nil {
				return err
			}
			defer client.Close()

			// Window and limits are irrelevant when only deleting keys
			limiter := ratelimit.NewLimiter(client.Client, 0, 0, 0)
			if err := limiter.ClearLockout(c.Context, auth.SanitizeEmail(c.String("email")), c.String("ip")); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "lockout cleared")
			return nil
		},
	}
}

func passwordError(err error) error {
	if errors.Is(err, auth.ErrPasswordPolicy) {
		return cli.Exit(err.Error(), 2)
	}
	return err
}
