// rently is a small CLI over the client SDK, useful for poking a running
// backend the way the mobile app would: reads go through the repositories
// and their sqlite cache, so listings keep working while the backend is down.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"rently-backend/client/api"
	"rently-backend/client/repository"
	"rently-backend/client/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	baseURL   string
	token     string
	cachePath string
	refresh   bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "rently",
		Short: "Rental listings client",
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("RENTLY_BASE_URL", "http://localhost:8080"), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("RENTLY_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", defaultCachePath(), "local cache database path")

	rootCmd.AddCommand(
		loginCmd(),
		propertiesCmd(),
		requestsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rently-cache.db"
	}
	return filepath.Join(home, ".rently", "cache.db")
}

type deps struct {
	client     *api.Client
	store      *store.Store
	properties *repository.PropertyRepository
	requests   *repository.RequestRepository
}

func buildDeps() (*deps, error) {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil && filepath.Dir(cachePath) != "." {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}
	st, err := store.Open(cachePath)
	if err != nil {
		return nil, fmt.Errorf("could not open cache: %w", err)
	}

	client := api.NewClient(baseURL)
	if token != "" {
		client.SetToken(token)
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	return &deps{
		client:     client,
		store:      st,
		properties: repository.NewPropertyRepository(client, st, log),
		requests:   repository.NewRequestRepository(client, st, log),
	}, nil
}

func loginCmd() *cobra.Command {
	var userType string
	cmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(baseURL)
			session, err := client.Login(context.Background(), args[0], args[1], userType)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", session.User.Username, session.User.UserType)
			fmt.Printf("export RENTLY_TOKEN=%s\n", session.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userType, "type", "landlord", "user type (guest, landlord, admin)")
	return cmd
}

func propertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Browse properties",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all properties (cache-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.store.Close()

			props, err := d.properties.List(context.Background(), refresh)
			if err != nil {
				return err
			}
			for _, p := range props {
				fmt.Printf("#%d\t%s\t%s\t%.2f\t%s\n", p.ID, p.Title, p.Address, p.Price, p.FurnitureType)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid property id %q", args[0])
			}
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.store.Close()

			p, err := d.properties.GetByID(context.Background(), uint(id))
			if err != nil {
				return err
			}
			fmt.Printf("#%d %s\n%s\n%s\n%.2f — %d bd, %d ba, %s\n",
				p.ID, p.Title, p.Description, p.Address, p.Price,
				p.BedroomCount, p.BathroomCount, p.FurnitureType)
			for _, url := range p.ImageURLs {
				fmt.Println("  image:", url)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

func requestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Landlord contact requests",
	}

	listCmd := &cobra.Command{
		Use:   "list <landlordId>",
		Short: "List a landlord's requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid landlord id %q", args[0])
			}
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.store.Close()

			reqs, err := d.requests.ListByLandlord(context.Background(), uint(id))
			if err != nil {
				return err
			}
			for _, q := range reqs {
				read := " "
				if q.IsRead {
					read = "r"
				}
				fmt.Printf("[%s] #%d property=%d %s <%s>: %s\n",
					read, q.ID, q.PropertyID, q.RequesterName, q.RequesterEmail, q.Message)
			}
			return nil
		},
	}

	unreadCmd := &cobra.Command{
		Use:   "unread <landlordId>",
		Short: "Show a landlord's unread request count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid landlord id %q", args[0])
			}
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.store.Close()

			count, err := d.requests.UnreadCount(context.Background(), uint(id))
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		},
	}

	readCmd := &cobra.Command{
		Use:   "read <requestId>",
		Short: "Mark a request as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.store.Close()

			if _, err := d.requests.MarkRead(context.Background(), uint(id)); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, unreadCmd, readCmd)
	return cmd
}
