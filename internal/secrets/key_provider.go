// Package secrets resolves credentials stored in Google Secret Manager.
package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// SecretAccessor is the subset of the Secret Manager client used here.
type SecretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// KeyProvider reads an API key from the latest version of a secret.
// It satisfies ai.KeyProvider.
type KeyProvider struct {
	accessor  SecretAccessor
	projectID string
	secret    string
}

// NewKeyProvider builds a provider over an existing accessor.
func NewKeyProvider(accessor SecretAccessor, projectID, secret string) *KeyProvider {
	return &KeyProvider{accessor: accessor, projectID: projectID, secret: secret}
}

// NewSecretManagerKeyProvider dials Secret Manager. The returned close func
// releases the client.
func NewSecretManagerKeyProvider(ctx context.Context, projectID, secret string, opts ...option.ClientOption) (*KeyProvider, func() error, error) {
	if projectID == "" {
		return nil, nil, fmt.Errorf("GCP Project ID is not set")
	}
	if secret == "" {
		return nil, nil, fmt.Errorf("secret name is empty")
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return NewKeyProvider(client, projectID, secret), client.Close, nil
}

// resourceName accepts either a bare secret id or a full resource path.
func (p *KeyProvider) resourceName() string {
	if strings.HasPrefix(p.secret, "projects/") {
		if strings.Contains(p.secret, "/versions/") {
			return p.secret
		}
		return p.secret + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.projectID, p.secret)
}

func (p *KeyProvider) APIKey(ctx context.Context) (string, error) {
	result, err := p.accessor.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: p.resourceName(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	if result.GetPayload() == nil {
		return "", fmt.Errorf("secret %s has no payload", p.secret)
	}
	return strings.TrimSpace(string(result.GetPayload().GetData())), nil
}
