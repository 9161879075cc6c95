package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockDatabase is a testify mock of app.Database
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Connect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDatabase) SetupLocker() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDatabase) SetupIndexes() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDatabase) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDatabase) InsertOne(ctx context.Context, collection string, data interface{}) (primitive.ObjectID, error) {
	args := m.Called(ctx, collection, data)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockDatabase) FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	args := m.Called(ctx, collection, filter, result)
	return args.Error(0)
}

func (m *MockDatabase) FindMany(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	args := m.Called(ctx, collection, filter, result)
	return args.Error(0)
}

func (m *MockDatabase) AggregateMany(ctx context.Context, collection string, pipeline interface{}, result interface{}) error {
	args := m.Called(ctx, collection, pipeline, result)
	return args.Error(0)
}

func (m *MockDatabase) UpdateOne(ctx context.Context, collection string, filter interface{}, update interface{}) (int64, error) {
	args := m.Called(ctx, collection, filter, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDatabase) UpsertOne(ctx context.Context, collection string, filter interface{}, update interface{}) (primitive.ObjectID, error) {
	args := m.Called(ctx, collection, filter, update)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockDatabase) DeleteOne(ctx context.Context, collection string, filter interface{}) (int64, error) {
	args := m.Called(ctx, collection, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDatabase) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	args := m.Called(ctx, collection, filter)
	return args.Get(0).(int64), args.Error(1)
}

// WithTransaction runs fn directly unless the expectation returns an error
func (m *MockDatabase) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockDatabase) XLock(resourceID string) (string, error) {
	args := m.Called(resourceID)
	return args.String(0), args.Error(1)
}

func (m *MockDatabase) Unlock(lockID string) error {
	args := m.Called(lockID)
	return args.Error(0)
}

// NewMockDatabase creates a MockDatabase whose expectations are asserted on test cleanup
func NewMockDatabase(t *testing.T) *MockDatabase {
	m := &MockDatabase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
