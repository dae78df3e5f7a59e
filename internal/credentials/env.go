package credentials

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable read by this package
const EnvPrefix = "QATRACK_"

// normalizeGatewayName converts a gateway name to the format used in environment variables
// Example: "http-staging" becomes "HTTP_STAGING"
func normalizeGatewayName(gatewayName string) string {
	normalized := strings.ToUpper(gatewayName)
	return strings.ReplaceAll(normalized, "-", "_")
}

// getEnvVarName returns the environment variable name for a gateway field
func getEnvVarName(gatewayName, field string) string {
	return EnvPrefix + normalizeGatewayName(gatewayName) + "_" + strings.ToUpper(field)
}

// GetToken retrieves the API token from environment variables
// Looks for: QATRACK_{GATEWAY}_TOKEN
func GetToken(gatewayName string) string {
	if gatewayName == "" {
		return ""
	}
	return os.Getenv(getEnvVarName(gatewayName, "TOKEN"))
}

// GetURL retrieves a server URL override from environment variables
// Looks for: QATRACK_{GATEWAY}_URL
func GetURL(gatewayName string) string {
	if gatewayName == "" {
		return ""
	}
	return os.Getenv(getEnvVarName(gatewayName, "URL"))
}

// LoadEnvFile reads KEY=value lines from path into the environment.
// Variables that are already set keep their value.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
