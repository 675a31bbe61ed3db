// Package config loads and validates the gateway configuration.
//
// Configuration comes from a config.yml file with environment variable
// overrides under the BUSLINE_ prefix (e.g. BUSLINE_AUTH_SECRET sets
// auth.secret). A .env file, when present, supplies variables that are
// not already set in the environment. Defaults are applied before
// validation, so a minimal file only needs the service name, the auth
// secret, and the database DSN.
package config
