package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()

	ledger, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func testRecord(docID string) *Record {
	return &Record{
		DocID:      docID,
		UID:        "user-1",
		Filename:   "report.pdf",
		Checksum:   "abc123",
		NodeCount:  11,
		RootID:     "root-1",
		IngestedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	ledger := openTestLedger(t)

	want := testRecord("doc-1")
	require.NoError(t, ledger.Put(want))

	got, err := ledger.Get("doc-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPutReplacesExisting(t *testing.T) {
	ledger := openTestLedger(t)

	first := testRecord("doc-1")
	require.NoError(t, ledger.Put(first))

	second := testRecord("doc-1")
	second.NodeCount = 23
	second.Checksum = "def456"
	require.NoError(t, ledger.Put(second))

	got, err := ledger.Get("doc-1")
	require.NoError(t, err)
	assert.Equal(t, 23, got.NodeCount)
	assert.Equal(t, "def456", got.Checksum)
}

func TestGetMissing(t *testing.T) {
	ledger := openTestLedger(t)

	_, err := ledger.Get("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutValidation(t *testing.T) {
	ledger := openTestLedger(t)

	assert.ErrorIs(t, ledger.Put(nil), ErrDocIDRequired)
	assert.ErrorIs(t, ledger.Put(&Record{}), ErrDocIDRequired)
}

func TestDelete(t *testing.T) {
	ledger := openTestLedger(t)

	require.NoError(t, ledger.Put(testRecord("doc-1")))
	require.NoError(t, ledger.Delete("doc-1"))

	_, err := ledger.Get("doc-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown doc_id is not an error.
	assert.NoError(t, ledger.Delete("doc-1"))
}

func TestList(t *testing.T) {
	ledger := openTestLedger(t)

	for _, id := range []string{"doc-c", "doc-a", "doc-b"} {
		require.NoError(t, ledger.Put(testRecord(id)))
	}

	records, err := ledger.List()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Records come back in key order.
	assert.Equal(t, "doc-a", records[0].DocID)
	assert.Equal(t, "doc-b", records[1].DocID)
	assert.Equal(t, "doc-c", records[2].DocID)
}

func TestListEmpty(t *testing.T) {
	ledger := openTestLedger(t)

	records, err := ledger.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	ledger, err := Open(dir, false)
	require.NoError(t, err)

	require.NoError(t, ledger.Put(testRecord("doc-1")))
	require.NoError(t, ledger.Close())

	// Records survive reopening.
	reopened, err := Open(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.DocID)
}
