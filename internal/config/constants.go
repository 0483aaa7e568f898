package config

const (
	// DefaultDatabasePath is where the annotation database lives unless
	// DATABASE_PATH says otherwise.
	DefaultDatabasePath = "./reader.db"

	// DefaultAccentColor is the highlight fill/stroke colour.
	DefaultAccentColor = "#ffb86c"
)
