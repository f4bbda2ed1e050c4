package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// CredentialProvider supplies the catalog API key. An empty key with a nil
// error means the credential is absent.
type CredentialProvider interface {
	CheckoutAPIKey(ctx context.Context) (string, error)
}

// SecretGetter is satisfied by pkg/aws.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// SecretsManagerCredentials reads the key from a JSON secret such as
// {"STRIPE_SECRET_KEY":"sk_live_..."}.
type SecretsManagerCredentials struct {
	secrets SecretGetter
	name    string
	field   string
}

func NewSecretsManagerCredentials(secrets SecretGetter, name, field string) *SecretsManagerCredentials {
	return &SecretsManagerCredentials{secrets: secrets, name: name, field: field}
}

func (c *SecretsManagerCredentials) CheckoutAPIKey(ctx context.Context) (string, error) {
	raw, err := c.secrets.GetSecret(ctx, c.name)
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", c.name, err)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return "", fmt.Errorf("decode secret %s: %w", c.name, err)
	}
	return values[c.field], nil
}

// StaticCredentials returns a key fixed at startup, usually from STRIPE_API_KEY.
type StaticCredentials struct {
	Key string
}

func (c StaticCredentials) CheckoutAPIKey(context.Context) (string, error) {
	if c.Key == "" {
		return "", errors.New("no static API key configured")
	}
	return c.Key, nil
}
