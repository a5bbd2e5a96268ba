// Command import loads the ingredient and tag catalogs from data files.
// Rows already present are skipped, so it is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/catalog"
	"foodgram/internal/logging"
)

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "ingredients file (.csv or .json)")
	tagsPath := flag.String("tags", "", "tags csv file (name,color,slug)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Logger().WithError(err).Fatal("invalid configuration")
	}
	logging.Init(cfg.LogLevel)
	log := logging.Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	svc := catalog.NewService(catalog.NewRepository(db))
	ctx := context.Background()

	if *ingredientsPath != "" {
		rows, err := readIngredients(*ingredientsPath)
		if err != nil {
			log.WithError(err).WithField("file", *ingredientsPath).Fatal("read ingredients failed")
		}
		res, err := svc.ImportIngredients(ctx, rows)
		if err != nil {
			log.WithError(err).Fatal("import ingredients failed")
		}
		logging.Infof(ctx, "ingredients imported: received=%d inserted=%d", res.Received, res.Inserted)
	}

	if *tagsPath != "" {
		f, err := os.Open(*tagsPath)
		if err != nil {
			log.WithError(err).Fatal("open tags failed")
		}
		defer f.Close()
		rows, err := catalog.ReadTagsCSV(f)
		if err != nil {
			log.WithError(err).WithField("file", *tagsPath).Fatal("read tags failed")
		}
		res, err := svc.ImportTags(ctx, rows)
		if err != nil {
			log.WithError(err).Fatal("import tags failed")
		}
		logging.Infof(ctx, "tags imported: received=%d inserted=%d", res.Received, res.Inserted)
	}
}

func readIngredients(path string) ([]catalog.IngredientRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return catalog.ReadIngredientsJSON(f)
	}
	return catalog.ReadIngredientsCSV(f)
}
