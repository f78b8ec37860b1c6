package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/comsierge/comsierge/internal/model"
)

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by source clients when the remote service rejects the
// configured credentials.
type AuthError struct {
	SourceType Type
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Type identifies the kind of inbound message source.
type Type string

const (
	TypeEmail Type = "email"
)

// Source defines the contract every inbound message integration implements.
type Source interface {
	// Type returns the source type identifier.
	Type() Type

	// ValidateConnection verifies credentials and connectivity.
	// Returns a human-readable status message on success.
	ValidateConnection(ctx context.Context) (string, error)

	// FetchInbound retrieves up to limit recent inbound messages.
	FetchInbound(ctx context.Context, limit int) ([]model.InboundMessage, error)
}
