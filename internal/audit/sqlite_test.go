package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "audit.db")

	// Act
	store, err := NewSQLiteStore(dbPath)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func TestSQLiteStore_Save(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	entry := &Entry{
		RequestID:  "req-123",
		UserID:     "user-1",
		Operation:  "analysis",
		Tone:       "doctor",
		Language:   "en",
		ReportType: "cbc",
		StatusCode: 200,
		Cached:     false,
		DurationMs: 1250,
	}

	// Act
	err := store.Save(ctx, entry)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, entry.ID, "ID should be assigned")
	assert.False(t, entry.CreatedAt.IsZero(), "CreatedAt should be set")
}

func TestSQLiteStore_List(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	operations := []string{"analysis", "profile", "metrics_history"}
	for i, op := range operations {
		entry := &Entry{
			RequestID:  "req-" + string(rune('a'+i)),
			UserID:     "user-1",
			Operation:  op,
			StatusCode: 200,
		}
		err := store.Save(ctx, entry)
		require.NoError(t, err, "Failed to save entry %d", i)
	}

	// Act
	list, err := store.List(ctx, "", 10, 0)

	// Assert
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestSQLiteStore_List_FilterByUser(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	for _, userID := range []string{"user-1", "user-2", "user-1"} {
		entry := &Entry{
			RequestID:  "req-x",
			UserID:     userID,
			Operation:  "analysis",
			StatusCode: 200,
		}
		require.NoError(t, store.Save(ctx, entry))
	}

	// Act
	list, err := store.List(ctx, "user-1", 10, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, e := range list {
		assert.Equal(t, "user-1", e.UserID)
	}
}

func TestSQLiteStore_List_Pagination(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := &Entry{
			RequestID:  "req-" + string(rune('0'+i)),
			UserID:     "user-1",
			Operation:  "analysis",
			StatusCode: 200,
		}
		err := store.Save(ctx, entry)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	}

	// Act - get first page
	page1, err := store.List(ctx, "", 2, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	// Act - get second page
	page2, err := store.List(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	// Act - get third page
	page3, err := store.List(ctx, "", 2, 4)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestSQLiteStore_List_NewestFirst(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	first := &Entry{RequestID: "req-old", UserID: "user-1", Operation: "analysis", StatusCode: 200}
	require.NoError(t, store.Save(ctx, first))
	time.Sleep(10 * time.Millisecond)
	second := &Entry{RequestID: "req-new", UserID: "user-1", Operation: "analysis", StatusCode: 200}
	require.NoError(t, store.Save(ctx, second))

	list, err := store.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "req-new", list[0].RequestID)
	assert.Equal(t, "req-old", list[1].RequestID)
}

func TestSQLiteStore_Count(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &Entry{
			RequestID:  "req-" + string(rune('0'+i)),
			UserID:     "user-1",
			Operation:  "analysis",
			StatusCode: 200,
		}
		require.NoError(t, store.Save(ctx, entry))
	}

	// Act
	count, err := store.Count(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNopStore(t *testing.T) {
	ctx := context.Background()
	var store Store = NopStore{}

	require.NoError(t, store.Save(ctx, &Entry{RequestID: "req-1"}))

	list, err := store.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.NoError(t, store.Close())
}

// Helper function to create a test store
func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "audit.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	return store
}
