package config

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Backend the reconciliation engine reads its collections from.
	DefaultBackendURL = "http://localhost:5000/api"

	// Dashboard snapshot refresh. Every run refetches the collections
	// and recomputes the landing stats; the previous snapshot is
	// served until the swap.
	DefaultRefreshSchedule = "*/15 * * * *"

	// Concurrent per-project summary fetches per batch.
	DefaultFanOutLimit = 8
)
