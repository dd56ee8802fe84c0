package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/forecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUntil() schema.UntilOutput {
	return schema.UntilOutput{
		Scenario: "savings",
		Item:     "savings",
		Initial:  100,
		Target:   150,
		Anchor:   day0,
		Reached:  day0.AddDate(0, 0, 5),
		Elapsed:  120 * time.Hour,
		Days:     5,
		Final:    150,
	}
}

func TestWriteUntilCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUntilCSV(&buf, sampleUntil(), ","))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "item,initial,target,final,reached,elapsed_seconds,days", lines[0])
	assert.Equal(t, "savings,100,150,150,2024-05-06 00:00:00,432000,5", lines[1])
}

func TestWriteUntilTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUntilTable(&buf, sampleUntil(), textConfig(), time.Second))

	s := buf.String()
	assert.Contains(t, s, "Reached")
	assert.Contains(t, s, "2024-05-06 00:00:00")
	assert.Contains(t, s, "120h0m0s")
	assert.Contains(t, s, "Target search completed")
}

func TestWriteUntilResult_JSONFile(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "until.json")

	require.NoError(t, NewOutWriter().WriteUntil(sampleUntil(), cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got schema.UntilOutput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 150.0, got.Target)
	assert.Equal(t, 120*time.Hour, got.Elapsed)
	assert.True(t, got.Reached.Equal(day0.AddDate(0, 0, 5)))
}

func TestWriteUntilResult_Parquet(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "until.parquet")

	require.NoError(t, WriteUntilResult(sampleUntil(), cfg, time.Second))
	_, err := os.Stat(cfg.OutputFile)
	assert.NoError(t, err)
}
