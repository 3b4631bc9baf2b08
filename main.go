package main

import (
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/router"
)

// @title MyBudget API
// @version 1.0
// @description Personal finance tracker: accounts, recurring bills and
// @description income, budget windows and an append-only transaction
// @description ledger.
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "path to an external config file (optional)")
	flag.StringVar(&configFile, "c", "", "path to an external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&showVersion, "v", false, "print version and exit (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("MyBudget v1.0.0")
		return
	}

	// .env is optional; deployed environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port overridden on the command line: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  MyBudget is up")
	log.Printf("==========================================")
	log.Printf("  API:    http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("  Health: http://localhost%s/health", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
