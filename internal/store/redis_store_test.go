package store_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/formaworks/uniform-cart-service/internal/errors"
	"github.com/formaworks/uniform-cart-service/internal/store"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testData struct {
	Field1 string `json:"field1"`
	Field2 int    `json:"field2"`
}

func setupRedis(t *testing.T) (store.Store, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	redisStore := store.NewRedisStore(client, 10*time.Minute)

	return redisStore, mock
}

func TestRedisLoad(t *testing.T) {
	ctx := t.Context()
	testKey := "cart:s1"
	testValue := testData{Field1: "value1", Field2: 123}
	jsonData, err := json.Marshal(testValue)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		var result testData

		mock.ExpectGet(testKey).SetVal(string(jsonData))

		// Act
		found, err := redisStore.Load(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testValue, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Key Not Found", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		var result testData

		mock.ExpectGet(testKey).RedisNil()

		// Act
		found, err := redisStore.Load(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		var result testData

		mock.ExpectGet(testKey).SetErr(errors.New("connection refused"))

		// Act
		found, err := redisStore.Load(ctx, testKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodePersistence, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Malformed Stored Value", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		var result testData

		mock.ExpectGet(testKey).SetVal("{not json")

		// Act
		found, err := redisStore.Load(ctx, testKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisSave(t *testing.T) {
	ctx := t.Context()
	testKey := "cart:s1"
	testValue := testData{Field1: "value1", Field2: 123}
	jsonData, err := json.Marshal(testValue)
	require.NoError(t, err)

	t.Run("Success - Stores With TTL", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		mock.ExpectSet(testKey, jsonData, 10*time.Minute).SetVal("OK")

		// Act
		err := redisStore.Save(ctx, testKey, testValue)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		mock.ExpectSet(testKey, jsonData, 10*time.Minute).SetErr(errors.New("connection refused"))

		// Act
		err := redisStore.Save(ctx, testKey, testValue)

		// Assert
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodePersistence, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisDelete(t *testing.T) {
	ctx := t.Context()
	testKey := "favorites:s1"

	t.Run("Success", func(t *testing.T) {
		// Arrange
		redisStore, mock := setupRedis(t)

		mock.ExpectDel(testKey).SetVal(1)

		// Act
		err := redisStore.Delete(ctx, testKey)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
