package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/nguyenvuong1309/glow/internal/auth"
	"github.com/nguyenvuong1309/glow/internal/config"
	"github.com/nguyenvuong1309/glow/internal/seed"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
	"github.com/nguyenvuong1309/glow/internal/store"
	"github.com/nguyenvuong1309/glow/internal/store/cache"
	"github.com/nguyenvuong1309/glow/internal/store/postgres"
	"github.com/nguyenvuong1309/glow/internal/transport/wire"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("service", "glowctl"))

	rootCmd := &cobra.Command{
		Use:           "glowctl",
		Short:         "Glow catalog administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd(log), seedCmd(log), filterCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDB(ctx context.Context) (config.Config, *bun.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func migrateCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func seedCmd(log *slog.Logger) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a catalog fixture into the database",
		Long:  "Upserts categories and services from a YAML fixture. Without --file the bundled demo catalog is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				cat seed.Catalog
				err error
			)
			if file == "" {
				cat, err = seed.Default()
			} else {
				cat, err = seed.LoadFile(file)
			}
			if err != nil {
				return err
			}

			cfg, db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			if err := postgres.SeedCatalog(ctx, db, cat.Categories, cat.Services); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("catalog seeded", slog.Int("categories", len(cat.Categories)), slog.Int("services", len(cat.Services)))

			if cfg.RedisAddr == "" {
				return nil
			}
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
			defer rdb.Close()
			cached := cache.NewCatalogRepo(postgres.NewCatalogRepo(db), cache.NewRedisKV(rdb), cfg.CacheTTL, log)
			if err := cached.Invalidate(ctx); err != nil {
				log.Warn("catalog cache invalidation failed", slog.Any("err", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog fixture (YAML)")
	return cmd
}

func filterCmd() *cobra.Command {
	var (
		in    catalog.FilterInput
		quick string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Run the availability filter against the stored catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			return runFilter(cmd.Context(), postgres.NewCatalogRepo(db), in, quick, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&in.Categories, "categories", nil, "Categories to include (comma separated or repeated)")
	cmd.Flags().StringVar(&in.DateFrom, "date-from", "", "First date, YYYY-MM-DD")
	cmd.Flags().StringVar(&in.DateTo, "date-to", "", "Last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&in.TimeFrom, "time-from", "", "Earliest time, HH:MM")
	cmd.Flags().StringVar(&in.TimeTo, "time-to", "", "Latest time, HH:MM")
	cmd.Flags().StringVar(&quick, "category", "", "Single-category quick filter")
	return cmd
}

func runFilter(ctx context.Context, repo store.CatalogRepository, in catalog.FilterInput, quick string, w io.Writer) error {
	services, err := catalog.NewService(repo).FilterAvailable(ctx, in, quick)
	if err != nil {
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid filter: %w", err)
		}
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire.Services(services))
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runToken(cfg.JWTSecret, userID, ttl, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Subject (user id)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runToken(secret, userID string, ttl time.Duration, w io.Writer) error {
	v, err := auth.NewVerifier(secret)
	if err != nil {
		return err
	}
	token, err := v.Issue(userID, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
