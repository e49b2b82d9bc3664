// Package database manages the connection to the local registry store.
//
// The default driver is SQLite with a per-user database file at
// ~/.simples/simples.db, created on first use. MySQL is supported as an
// alternative for shared deployments via the driver configuration.
//
// Connection handles are plain *gorm.DB values; the registry feature layers
// its schema and queries on top. GORM's own logging is silenced so that all
// reporting flows through the application logger.
package database
