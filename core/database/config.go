package database

// Config holds configuration for the local registry database.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the SQLite database file. Empty means the per-user default
	// (~/.simples/simples.db).
	Path string `mapstructure:"path" default:""`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// Name is the database name (mysql only).
	Name string `mapstructure:"name" default:"simples"`
	// TimeoutSeconds bounds connection setup and I/O (mysql only).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
