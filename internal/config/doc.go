// Package config provides configuration management for the tmplrender command.
//
// Configuration is loaded from environment variables and validated on startup.
// All configuration options have sensible defaults for development; Redis is
// only used when REDIS_ADDR is set.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
