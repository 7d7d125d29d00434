package store_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	apperrors "github.com/formaworks/uniform-cart-service/internal/errors"
	"github.com/formaworks/uniform-cart-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgres(t *testing.T) (store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return store.NewPostgresStore(db), mock
}

func TestPostgresLoad(t *testing.T) {
	ctx := t.Context()
	testKey := store.CartKey("s1")
	testValue := testData{Field1: "value1", Field2: 123}
	jsonData, err := json.Marshal(testValue)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		pgStore, mock := setupPostgres(t)

		mock.ExpectQuery(`SELECT value`).
			WithArgs(testKey).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(jsonData))

		var result testData

		// Act
		found, err := pgStore.Load(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testValue, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Key Not Found", func(t *testing.T) {
		// Arrange
		pgStore, mock := setupPostgres(t)

		mock.ExpectQuery(`SELECT value`).
			WithArgs(testKey).
			WillReturnError(sql.ErrNoRows)

		var result testData

		// Act
		found, err := pgStore.Load(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		pgStore, mock := setupPostgres(t)

		mock.ExpectQuery(`SELECT value`).
			WithArgs(testKey).
			WillReturnError(errors.New("connection reset"))

		var result testData

		// Act
		found, err := pgStore.Load(ctx, testKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodePersistence, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSave(t *testing.T) {
	ctx := t.Context()
	testKey := store.CartKey("s1")
	testValue := testData{Field1: "value1", Field2: 123}
	jsonData, err := json.Marshal(testValue)
	require.NoError(t, err)

	t.Run("Success - Upserts", func(t *testing.T) {
		// Arrange
		pgStore, mock := setupPostgres(t)

		mock.ExpectExec(`INSERT INTO cart_store`).
			WithArgs(testKey, jsonData).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := pgStore.Save(ctx, testKey, testValue)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		pgStore, mock := setupPostgres(t)

		mock.ExpectExec(`INSERT INTO cart_store`).
			WithArgs(testKey, jsonData).
			WillReturnError(errors.New("connection reset"))

		// Act
		err := pgStore.Save(ctx, testKey, testValue)

		// Assert
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodePersistence, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDelete(t *testing.T) {
	ctx := t.Context()
	testKey := store.FavoritesKey("s1")

	t.Run("Success", func(t *testing.T) {
		// Arrange
		pgStore, mock := setupPostgres(t)

		mock.ExpectExec(`DELETE FROM cart_store`).
			WithArgs(testKey).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := pgStore.Delete(ctx, testKey)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
