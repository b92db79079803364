package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/config"
	"budget-ledger/internal/database"
	"budget-ledger/internal/ledger"
	"budget-ledger/internal/router"

	"github.com/gin-gonic/gin"
)

func main() {
	path := "config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// load configuration
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// log to stdout and, when configured, to a file
	if cfg.Log.File != "" {
		if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
			log.Fatalf("create log dir: %v", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		w := io.MultiWriter(os.Stdout, f)
		log.SetOutput(w)
		gin.DefaultWriter = w
	}

	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	svc := ledger.NewService(db, clock.System{}, cfg.Budget)

	// setup router
	r := router.SetupRouter(cfg, db, svc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
