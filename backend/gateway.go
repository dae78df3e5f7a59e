package backend

import "context"

// Gateway is the remote service test cases are persisted to.
// Implementations report failures as *RemoteError where an HTTP-like status is known.
type Gateway interface {
	// CreateCase stores a new case and returns it with the remote-assigned ID
	CreateCase(ctx context.Context, c TestCase) (TestCase, error)
	UpdateCase(ctx context.Context, c TestCase) (TestCase, error)
	DeleteCase(ctx context.Context, id string) error
}

// GatewayConfig selects and configures a Gateway implementation
type GatewayConfig struct {
	Type           string `json:"type" validate:"required,oneof=sqlite http"`
	URL            string `json:"url,omitempty" validate:"omitempty,url"`
	DBPath         string `json:"db_path,omitempty"`
	Token          string `json:"token,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"min=0,max=600"`
}
