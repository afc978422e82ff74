package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/BerniceZTT/cbam_end/config"
	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/service"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	cfg := config.LoadConfig()
	var (
		mongoURI string
		dbName   string
		seed     int64
		replace  bool
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample suppliers and imports into MongoDB",
		Long: `Generate deterministic sample suppliers and goods imports and store them.
The same seed always yields the same records, so seeding twice without
--replace fails with a conflict.

Examples:
  cbamctl seed
  cbamctl seed --mongo-uri mongodb://db:27017 --db cbam_demo --seed 7 --replace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := repository.NewMongoStore(ctx, mongoURI, dbName)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())
			return seedStore(ctx, cmd, root, store, seed, replace, admin, cfg.AdminPassword)
		},
	}

	cmd.Flags().StringVar(&mongoURI, "mongo-uri", cfg.MongoURI, "MongoDB connection URI")
	cmd.Flags().StringVar(&dbName, "db", cfg.MongoDB, "MongoDB database name")
	cmd.Flags().Int64Var(&seed, "seed", service.DefaultSampleOptions.Seed, "Random seed")
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove existing suppliers and imports first")
	cmd.Flags().BoolVar(&admin, "admin", true, "Create the default admin account when missing")
	return cmd
}

// seedStore writes sample data into any store and reports the counts
func seedStore(ctx context.Context, cmd *cobra.Command, root *rootOptions, store repository.Store, seed int64, replace, admin bool, adminPassword string) error {
	if admin {
		if err := repository.InitializeAdminAccount(ctx, store, adminPassword); err != nil {
			return err
		}
	}

	opts := service.DefaultSampleOptions
	opts.Seed = seed
	suppliers, imports := service.GenerateSampleData(opts)
	if err := repository.SeedData(ctx, store, suppliers, imports, replace); err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), root.output, map[string]interface{}{
		"seed":      seed,
		"suppliers": len(suppliers),
		"imports":   len(imports),
		"quarters":  service.SummarizeQuarters(imports),
	})
}
