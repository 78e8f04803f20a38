package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/eduquest/config"
)

func TestOpenStoreSQLite(t *testing.T) {
	s, err := OpenStore(context.Background(), config.AppConfig{
		StoreDriver: "sqlite",
		SQLitePath:  ":memory:",
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	defer s.Close(context.Background())

	n, err := s.Courses().CountCourses(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.AppConfig{StoreDriver: "cassandra"})
	assert.Error(t, err)
}
