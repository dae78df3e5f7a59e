// Package credentials finds the API token for the remote gateway.
package credentials

import (
	"fmt"
	"net/url"

	"qatrack/internal/utils"
)

// Source indicates where a token was found
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceNone    Source = "none"
)

// Credentials is a resolved API token
type Credentials struct {
	Token  string
	Source Source
}

// Resolver looks a token up in the keyring, then the environment, then the config file
type Resolver struct {
	keyringAvailable func() bool
}

// NewResolver creates a new credential resolver
func NewResolver() *Resolver {
	return &Resolver{keyringAvailable: IsAvailable}
}

// Resolve returns the token for gatewayName. account selects the keyring entry;
// an empty account skips the keyring.
func (r *Resolver) Resolve(gatewayName, account, configToken string) (*Credentials, error) {
	if gatewayName == "" {
		return nil, fmt.Errorf("gateway name is required for credential resolution")
	}

	if account != "" && r.keyringAvailable() {
		token, err := Get(gatewayName, account)
		if err == nil {
			return &Credentials{Token: token, Source: SourceKeyring}, nil
		}
		utils.Debugf("credentials: %v", err)
	}

	if token := GetToken(gatewayName); token != "" {
		return &Credentials{Token: token, Source: SourceEnv}, nil
	}

	if configToken != "" {
		return &Credentials{Token: configToken, Source: SourceConfig}, nil
	}

	return &Credentials{Source: SourceNone}, fmt.Errorf("no token found for gateway %q (tried: keyring, %s, config file)",
		gatewayName, getEnvVarName(gatewayName, "TOKEN"))
}

// AccountFor returns the keyring account for a server URL, which is its host
func AccountFor(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil {
		return ""
	}
	return u.Host
}
