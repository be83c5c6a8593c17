package config

// Application identity reported in feed metadata and the generator element.
const (
	AppName    = "opdserve"
	AppVersion = "1.2.0"
	AppWebsite = "https://github.com/opdserve/opdserve"
)

// Default paths
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./opdserve.db"

	// DefaultLibrariesPath is the default directory holding Calibre libraries
	DefaultLibrariesPath = "./libraries"
)
