// Package config handles loading and validating Gadgetry configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (the JWT secret, broker passwords, tokens) should be
//     set via environment variables
//   - The config file should have restricted permissions (0600)
//   - A missing or short JWT secret fails validation, which aborts startup
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
