// Package config provides configuration management for the StratIQ AI service.
//
// Configuration is loaded from environment variables using the env package,
// optionally seeded from a .env file. All configuration values have sensible
// defaults for development use; production switches the CORS policy to deny
// cross-origin requests unless origins are listed explicitly.
//
// Example usage:
//
//	if err := config.LoadDotEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
