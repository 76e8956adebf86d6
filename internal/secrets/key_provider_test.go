package secrets

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

type fakeAccessor struct {
	names []string
	data  string
	err   error
}

func (f *fakeAccessor) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.names = append(f.names, req.GetName())
	if f.err != nil {
		return nil, f.err
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(f.data)},
	}, nil
}

func TestKeyProviderResourceNames(t *testing.T) {
	testCases := []struct {
		secret string
		want   string
	}{
		{"ai-key", "projects/p1/secrets/ai-key/versions/latest"},
		{"projects/p2/secrets/other", "projects/p2/secrets/other/versions/latest"},
		{"projects/p2/secrets/other/versions/3", "projects/p2/secrets/other/versions/3"},
	}
	for _, tc := range testCases {
		acc := &fakeAccessor{data: "sk-test\n"}
		key, err := NewKeyProvider(acc, "p1", tc.secret).APIKey(context.Background())
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.secret, err)
		}
		if key != "sk-test" {
			t.Errorf("%s: expected trimmed key, got %q", tc.secret, key)
		}
		if len(acc.names) != 1 || acc.names[0] != tc.want {
			t.Errorf("%s: expected resource %s, got %v", tc.secret, tc.want, acc.names)
		}
	}
}

func TestKeyProviderError(t *testing.T) {
	acc := &fakeAccessor{err: errors.New("permission denied")}
	if _, err := NewKeyProvider(acc, "p1", "ai-key").APIKey(context.Background()); err == nil {
		t.Fatal("expected error from accessor")
	}
}

func TestNewSecretManagerKeyProviderRequiresProject(t *testing.T) {
	if _, _, err := NewSecretManagerKeyProvider(context.Background(), "", "ai-key"); err == nil {
		t.Fatal("expected error for empty project")
	}
	if _, _, err := NewSecretManagerKeyProvider(context.Background(), "p1", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
