package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// ClientOptions returns the authentication option for the given credentials.
func ClientOptions(apiKey, accessToken string) ([]option.ClientOption, error) {
	switch {
	case accessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		return []option.ClientOption{option.WithTokenSource(ts)}, nil
	case apiKey != "":
		return []option.ClientOption{option.WithAPIKey(apiKey)}, nil
	default:
		return nil, fmt.Errorf("%w: google api key or access token required", domain.ErrAuthInvalid)
	}
}

// NewDriveService creates a read-only Google Drive API service.
func NewDriveService(ctx context.Context, opts ...option.ClientOption) (*drive.Service, error) {
	opts = append([]option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
