package services

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/request"
)

// SiteService calls the site configuration and settings endpoints.
type SiteService struct {
	client *request.Client
}

// NewSiteService creates a [SiteService] over client.
func NewSiteService(client *request.Client) *SiteService {
	return &SiteService{client: client}
}

// GetSiteConfig fetches the public site configuration bundle.
//
// The method value satisfies the site-config store's loader signature.
func (s *SiteService) GetSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	var config models.SiteConfig
	if err := s.client.Get(ctx, "/public/site-config", nil, &config); err != nil {
		return nil, fmt.Errorf("failed to fetch site config: %w", err)
	}
	return config, nil
}

// SendTestEmail asks the backend to send a test message to toEmail.
func (s *SiteService) SendTestEmail(ctx context.Context, toEmail string) error {
	body := map[string]string{"to_email": toEmail}
	if err := s.client.Post(ctx, "/settings/test-email", body, nil); err != nil {
		return fmt.Errorf("failed to send test email: %w", err)
	}
	return nil
}
