// Command server runs the CrossFund HTTP API: quote, prepare, execute,
// registry, execution-status websocket and the admin surface. Grounded
// on the teacher's cmd/verify-db-connection/main.go sequential
// config-then-db bootstrap, extended with the façade/events/router
// wiring SetupRouter needs.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"crossfund/internal/admin"
	"crossfund/internal/adapters"
	"crossfund/internal/chain"
	"crossfund/internal/config"
	"crossfund/internal/db"
	"crossfund/internal/events"
	"crossfund/internal/facade"
	"crossfund/internal/router"
	"crossfund/internal/store"
	"crossfund/internal/ws"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if err := config.Load(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logrus.New()
	if os.Getenv("LOG_FORMAT") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := db.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	cf := facade.Init(facade.Config{
		APIKeys: adapters.APIKeys{
			ZeroX:   config.AppConfig.Aggregators.ZeroXAPIKey,
			OneInch: config.AppConfig.Aggregators.OneInchAPIKey,
			Socket:  config.AppConfig.Aggregators.SocketAPIKey,
			LiFi:    config.AppConfig.Aggregators.LiFiAPIKey,
		},
	})

	publisher, err := events.Init()
	if err != nil {
		logger.WithError(err).Warn("NATS publisher unavailable, execution events will not be published")
	}

	totpSecret := os.Getenv("ADMIN_TOTP_SECRET")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if totpSecret == "" || adminPassword == "" {
		logger.Warn("ADMIN_TOTP_SECRET or ADMIN_PASSWORD not set; admin login will always fail")
	}
	auth := admin.New(config.AppConfig.Admin, totpSecret, adminPassword, os.Getenv("ADMIN_USERNAME"))

	deps := router.Deps{
		CrossFund: cf,
		Registry:  chain.Global,
		Store:     store.New(db.DB),
		Publisher: publisher,
		Hub:       ws.NewHub(),
		Auth:      auth,
		Logger:    logger,
	}

	engine := router.SetupRouter(deps)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Server.Host, config.AppConfig.Server.Port)
	logger.WithField("addr", addr).Info("starting crossfund server")
	if err := engine.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
