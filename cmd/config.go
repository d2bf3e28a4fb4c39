package cmd

import "strings"

// Storage driver names accepted in Config.StorageDriver.
const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// Config carries the process configuration read from the environment.
type Config struct {
	HTTPPort string

	// StorageDriver selects the snapshot store: "file" or "postgres".
	StorageDriver string

	// SnapshotPath is the snapshot file location for the file driver.
	SnapshotPath string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// CatalogPath optionally points to a JSON menu file; empty means the
	// built-in menu.
	CatalogPath string

	ManagerUsername string
	ManagerPassword string

	// AgentNames is the comma-separated list of delivery agent display names;
	// the pool size equals its length.
	AgentNames string
}

// AgentNameList splits AgentNames into the configured pool, dropping empty
// entries.
func (c Config) AgentNameList() []string {
	var names []string
	for _, name := range strings.Split(c.AgentNames, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
