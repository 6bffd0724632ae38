package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SiteLedger/internal/appmanager"
	"SiteLedger/internal/config"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/jobs"
)

func main() {
	// .env for local dev; ignored when absent
	_ = godotenv.Load(".env")

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = config.DefaultBackendURL
	}

	client := datasource.NewClient(backendURL, nil)
	store := jobs.NewSnapshotStore()
	appmanager.SetClient(client)
	appmanager.SetSnapshotStore(store)

	manager := appmanager.NewAppManager()

	servicesCfg, err := appmanager.LoadServiceSequence("services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}
	manager.AutoRegisterServices(servicesCfg)

	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
