// internal/workers/tasks.go
package workers

// Task type names registered with asynq
const (
	TypeRefreshAnalytics = "analytics:refresh"
	TypeStockAlerts      = "stock:alerts"
	TypeCleanupTempFiles = "cleanup:temp_files"
)
