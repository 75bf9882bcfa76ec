package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superai/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestHistorySessionRoundTrip(t *testing.T) {
	d := testDB(t)

	sess := &models.HistorySession{
		ID:        "s1",
		Messages:  []models.ChatMessage{{Role: models.RoleHuman, Content: "你好"}},
		Timestamp: "2026-08-29 10:00",
	}
	require.NoError(t, d.StoreHistorySession("alice", sess))

	got, err := d.GetHistorySession("alice", "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.Messages, got.Messages)

	// Missing keys and other users come back nil, not an error.
	got, err = d.GetHistorySession("alice", "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = d.GetHistorySession("bob", "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListHistorySessionsNewestFirst(t *testing.T) {
	d := testDB(t)

	require.NoError(t, d.StoreHistorySession("alice", &models.HistorySession{
		ID: "old", Timestamp: "2026-08-27 09:00"}))
	require.NoError(t, d.StoreHistorySession("alice", &models.HistorySession{
		ID: "new", Timestamp: "2026-08-29 09:00"}))
	require.NoError(t, d.StoreHistorySession("bob", &models.HistorySession{
		ID: "other", Timestamp: "2026-08-28 09:00"}))

	sessions, err := d.ListHistorySessions("alice")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "old", sessions[1].ID)
}

func TestDeleteHistorySession(t *testing.T) {
	d := testDB(t)
	require.NoError(t, d.StoreHistorySession("alice", &models.HistorySession{ID: "s1"}))
	require.NoError(t, d.DeleteHistorySession("alice", "s1"))

	got, err := d.GetHistorySession("alice", "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDocumentTextCache(t *testing.T) {
	d := testDB(t)

	require.NoError(t, d.StoreDocumentText("d1", "文档内容"))
	text, err := d.GetDocumentText("d1")
	require.NoError(t, err)
	assert.Equal(t, "文档内容", text)

	text, err = d.GetDocumentText("missing")
	require.NoError(t, err)
	assert.Empty(t, text)

	ids, err := d.ListDocumentIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, ids)

	require.NoError(t, d.DeleteDocumentText("d1"))
	text, err = d.GetDocumentText("d1")
	require.NoError(t, err)
	assert.Empty(t, text)

	// Deleting a missing entry is not an error.
	require.NoError(t, d.DeleteDocumentText("missing"))
}
