package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/storage"
	"github.com/paulson-ai/backend/internal/storage/models"
)

func testRecord(input string, label emotion.Label) models.InteractionRecord {
	return models.InteractionRecord{
		Timestamp:       time.Now().UTC(),
		UserInput:       input,
		DetectedEmotion: label,
		EmotionScores: []models.EmotionScore{
			{Label: label.String(), Score: 0.9},
			{Label: "neutral", Score: 0.1},
		},
		Response: "a reply",
	}
}

func TestNewInitializesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")

	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	records, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendVisibleToAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")
	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, testRecord("I am furious about these fees", emotion.Anger)))

	records, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, emotion.Anger, records[0].DetectedEmotion)
	assert.Equal(t, "I am furious about these fees", records[0].UserInput)
	require.Len(t, records[0].EmotionScores, 2)
	assert.Equal(t, "anger", records[0].EmotionScores[0].Label)
}

func TestDocumentIsPrettyPrintedWithKnownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")
	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(context.Background(), testRecord("hello", emotion.Neutral)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n  {"), "document should be a pretty-printed array")
	assert.Contains(t, text, `"timestamp"`)
	assert.Contains(t, text, `"user_input"`)
	assert.Contains(t, text, `"detected_emotion"`)
	assert.Contains(t, text, `"emotion_scores"`)
	assert.Contains(t, text, `"response"`)
	assert.Contains(t, text, "\n  ", "indentation should be two spaces")
}

func TestRoundTripAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, testRecord(fmt.Sprintf("message %d", i), emotion.Joy)))
	}
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "message 0", records[0].UserInput)
	assert.Equal(t, "message 4", records[4].UserInput)
}

func TestCorruptDocumentSurfacesErrCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.All(context.Background())
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	err = store.Append(context.Background(), testRecord("hello", emotion.Neutral))
	assert.ErrorIs(t, err, storage.ErrCorrupt)
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")
	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, testRecord(fmt.Sprintf("concurrent %d", n), emotion.Surprise)))
		}(i)
	}
	wg.Wait()

	records, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)

	// The document on disk must still parse as a single array.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, writers)
}
