package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./library-catalog.db"

	// DefaultPageSize is the fixed page size applied to every list view
	DefaultPageSize = 10
)
