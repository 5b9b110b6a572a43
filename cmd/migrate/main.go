package main

import (
	"database/sql"
	"os"

	"retail-transfers/app/config"
	"retail-transfers/app/database"

	"go.uber.org/zap"
)

// migrate applies the built-in schema, then any SQL files named on the command line.
func main() {
	cfg := config.Load()
	log, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	for _, path := range os.Args[1:] {
		executeSQLFile(db, log, path)
	}

	log.Info("migration completed")
}

func executeSQLFile(db *sql.DB, log *zap.Logger, filePath string) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Warn("skipping sql file", zap.String("file", filePath), zap.Error(err))
		return
	}

	log.Info("executing sql file", zap.String("file", filePath))
	if _, err := db.Exec(string(content)); err != nil {
		log.Error("failed to execute sql file", zap.String("file", filePath), zap.Error(err))
		return
	}
	log.Info("executed sql file", zap.String("file", filePath))
}
