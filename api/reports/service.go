package reports

import (
	"encoding/json"
	"log"
	"net/http"

	"SiteLedger/api/ingest"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/jobs"
	"SiteLedger/internal/serviceiface"

	"github.com/gorilla/mux"
)

type ReportsService struct {
	config map[string]interface{}
	client *datasource.Client
	store  *jobs.SnapshotStore
}

func NewReportsService(cfg map[string]interface{}, client *datasource.Client, store *jobs.SnapshotStore) serviceiface.Service {
	return &ReportsService{config: cfg, client: client, store: store}
}

func (s *ReportsService) Name() string {
	return "gateway"
}

func (s *ReportsService) Start() error {
	addr := ":8080"
	if s.config != nil {
		if a, ok := s.config["addr"].(string); ok && a != "" {
			addr = a
		}
	}
	go func() {
		log.Println("[INFO] report gateway listening on", addr)
		if err := http.ListenAndServe(addr, NewRouter(s.client, s.store)); err != nil {
			log.Println("[ERROR] report gateway stopped:", err)
		}
	}()
	return nil
}

func (s *ReportsService) Stop() error {
	return nil
}

// NewRouter mounts every report and ingest endpoint. Report endpoints
// are POST with a JSON filter body; ingest is multipart.
func NewRouter(client *datasource.Client, store *jobs.SnapshotStore) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/reports/dashboard", GetDashboardStats(client, store)).Methods("POST")
	router.HandleFunc("/reports/profit-loss", GetProfitLossReport(client)).Methods("POST")
	router.HandleFunc("/reports/stock", GetStockReport(client)).Methods("POST")
	router.HandleFunc("/reports/monthly-series", GetMonthlySeries(client)).Methods("POST")
	router.HandleFunc("/reports/payroll", GetPayrollReport(client)).Methods("POST")
	router.HandleFunc("/reports/material-mappings", GetMaterialMappings(client)).Methods("POST")
	router.HandleFunc("/ingest/ledger", ingest.LedgerUploadHandler()).Methods("POST")
	router.HandleFunc("/healthz", healthHandler).Methods("GET")

	return router
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
