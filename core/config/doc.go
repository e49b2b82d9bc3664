// Package config provides configuration management for the registry mirror.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings for the serve command (port, API key)
//   - Database: local store location and driver
//   - Source: remote file index URL, archive name, working dir, batch size
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Source.IndexURL)
package config
