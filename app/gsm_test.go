package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/dan13ram/fundraiser-escrow/models"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	log "github.com/sirupsen/logrus"
)

type mockSecretManagerClient struct {
	mock.Mock
}

func (m *mockSecretManagerClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	args := m.Called(req.Name)
	resp, _ := args.Get(0).(*secretmanagerpb.AccessSecretVersionResponse)
	return resp, args.Error(1)
}

func (m *mockSecretManagerClient) Close() error {
	return nil
}

func secretResponse(data string) *secretmanagerpb.AccessSecretVersionResponse {
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(data)},
	}
}

func withSecretManagerClient(t *testing.T, client SecretManagerClient, err error) {
	original := NewSecretManagerClient
	NewSecretManagerClient = func(ctx context.Context) (SecretManagerClient, error) {
		return client, err
	}
	t.Cleanup(func() { NewSecretManagerClient = original })
}

func TestReadSecretsFromGSM(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		Config = models.Config{}
		withSecretManagerClient(t, nil, errors.New("should not be called"))

		assert.NotPanics(t, func() { readSecretsFromGSM() })
	})

	t.Run("Missing Project ID", func(t *testing.T) {
		Config = models.Config{}
		Config.GoogleSecretManager.Enabled = true

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { readSecretsFromGSM() })
	})

	t.Run("Client Error", func(t *testing.T) {
		Config = models.Config{}
		Config.GoogleSecretManager = models.GoogleSecretManagerConfig{Enabled: true, ProjectID: "project"}
		withSecretManagerClient(t, nil, errors.New("error"))

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { readSecretsFromGSM() })
	})

	t.Run("Reads Mongo URI And Redis Password", func(t *testing.T) {
		Config = models.Config{}
		Config.GoogleSecretManager = models.GoogleSecretManagerConfig{
			Enabled:         true,
			ProjectID:       "project",
			MongoSecretName: "mongo",
			RedisSecretName: "redis",
		}
		Config.Redis.Enabled = true

		client := &mockSecretManagerClient{}
		client.On("AccessSecretVersion", "projects/project/secrets/mongo/versions/latest").Return(secretResponse("mongodb://secret"), nil)
		client.On("AccessSecretVersion", "projects/project/secrets/redis/versions/latest").Return(secretResponse("hunter2"), nil)
		withSecretManagerClient(t, client, nil)

		readSecretsFromGSM()

		assert.Equal(t, "mongodb://secret", Config.MongoDB.URI)
		assert.Equal(t, "hunter2", Config.Redis.Password)
		client.AssertExpectations(t)
	})

	t.Run("Secret Access Error", func(t *testing.T) {
		Config = models.Config{}
		Config.GoogleSecretManager = models.GoogleSecretManagerConfig{
			Enabled:         true,
			ProjectID:       "project",
			MongoSecretName: "mongo",
		}

		client := &mockSecretManagerClient{}
		client.On("AccessSecretVersion", mock.Anything).Return(nil, errors.New("denied"))
		withSecretManagerClient(t, client, nil)

		defer func() { log.StandardLogger().ExitFunc = nil }()
		log.StandardLogger().ExitFunc = func(num int) { panic(fmt.Sprintf("exit %d", num)) }

		assert.Panics(t, func() { readSecretsFromGSM() })
	})
}
