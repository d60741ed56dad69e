package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"neftit/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"neftit/internal/datastore"
	"neftit/internal/models"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandBurnRuleMigration(),
			commandAchievementMigration(),
			commandImportPool(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePoolEntry(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableDistribution(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBurnRule(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBurnLog(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableChainClaim(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableStakeRecord(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableTokenStake(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableRewardLedger(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAchievementDefs(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAchievementState(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_TOKEN_APR, Value: "20"},
				{Key: services.CONFIG_MIN_TOKEN_STAKE, Value: "10"},
				{Key: services.CONFIG_DISTRIBUTION_BATCH_LIMIT, Value: "100"},
				{Key: services.CONFIG_SUPPORTED_CHAINS, Value: "ethereum,polygon,avalanche,arbitrum"},
				{Key: services.CONFIG_MIN_CLAIM_BALANCE_GWEI, Value: "0"},
				{Key: services.CONFIG_CRONJOB_TIME_ACCRUAL, Value: "5 0 * * *"},
			}

			for _, config := range configs {
				_, err = db.NewInsert().Model(&config).Exec(ctx)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandBurnRuleMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-burn-rules",
		Description: "Insert the default burn upgrade rules",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			rules := make([]*models.BurnRule, 0, len(models.DefaultBurnRules))
			for i := range models.DefaultBurnRules {
				rule := models.DefaultBurnRules[i]
				rules = append(rules, &rule)
			}

			err = datastore.InsertBurnRules(ctx, db, rules)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandAchievementMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-achievements",
		Description: "Insert the default achievement definitions",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			defs := make([]*models.AchievementDef, 0, len(models.DefaultAchievements))
			for i := range models.DefaultAchievements {
				def := models.DefaultAchievements[i]
				defs = append(defs, &def)
			}

			err = datastore.InsertAchievementDefs(ctx, db, defs)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandImportPool() *cli.Command {
	return &cli.Command{
		Name:        "import-pool",
		Description: "Import pool entries from a CSV of rarity,image_cid,metadata_cid rows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Value: "./pool.csv",
			},
			&cli.StringFlag{
				Name:     "project",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			inputPath := c.String("input")
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return err
			}

			projectID := c.String("project")

			file, err := os.Open(inputPath)
			if err != nil {
				return err
			}

			r := csv.NewReader(file)

			entries := []*models.PoolEntry{}
			for {
				row, err := r.Read()
				if err != nil {
					break
				}

				if len(row) < 3 {
					fmt.Println("skip malformed row", row)
					continue
				}

				rarity := models.ToRarity(row[0])
				if !rarity.Valid() {
					fmt.Println("skip unknown rarity", row[0])
					continue
				}

				entries = append(entries, &models.PoolEntry{
					ProjectID:   projectID,
					Rarity:      rarity,
					ImageCID:    row[1],
					MetadataCID: row[2],
				})
			}

			if len(entries) == 0 {
				fmt.Println("no entries to import")
				return nil
			}

			err = datastore.InsertPoolEntries(ctx, db, entries)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Imported", len(entries), "pool entries for", projectID)

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
