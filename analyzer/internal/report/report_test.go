package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/obsidianstack/sensorscan/analyzer/internal/config"
	"github.com/obsidianstack/sensorscan/pkg/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		TemperatureDriftCount:   1,
		ExcessiveVibrationCount: 2,
		VoltageDropCount:        1,
		Readings:                120,
		Events: []types.Event{
			{Kind: types.KindTemperatureDrift, Start: 10, End: 11, Timestamp: 10, Peak: 6.5},
			{Kind: types.KindExcessiveVibration, Start: 40, End: 40, Timestamp: 40, Peak: 12.2},
			{Kind: types.KindExcessiveVibration, Start: 60, End: 64, Timestamp: 60, Peak: 15},
			{Kind: types.KindVoltageDrop, Start: 80, End: 95, Timestamp: 80, Peak: 4.1},
		},
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), config.FormatJSON, false))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.EqualValues(t, 1, got["temperature_drift_count"])
	assert.EqualValues(t, 2, got["excessive_vibration_count"])
	assert.EqualValues(t, 1, got["voltage_drop_count"])
	assert.NotContains(t, got, "anomalies", "events omitted unless requested")
}

func TestWrite_JSONWithEvents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), config.FormatJSON, true))

	var got types.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Events, 4)
	assert.Equal(t, types.KindVoltageDrop, got.Events[3].Kind)
	assert.Equal(t, 16, got.Events[3].Length())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), config.FormatYAML, true))

	var got types.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.ExcessiveVibrationCount)
	assert.Equal(t, 120, got.Readings)
	assert.Len(t, got.Events, 4)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), config.FormatText, false))

	out := buf.String()
	assert.Regexp(t, `temperature_drift_count\s+1\n`, out)
	assert.Regexp(t, `excessive_vibration_count\s+2\n`, out)
	assert.Regexp(t, `voltage_drop_count\s+1\n`, out)
	assert.NotContains(t, out, "TYPE")
}

func TestWrite_TextWithEvents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), config.FormatText, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 4 summary lines, a blank, a header and 4 events.
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[5], "TYPE"))
	assert.True(t, strings.HasPrefix(lines[9], types.KindVoltageDrop))
}

func TestWrite_DoesNotMutateReport(t *testing.T) {
	rep := sampleReport()
	require.NoError(t, Write(&bytes.Buffer{}, rep, config.FormatJSON, false))
	assert.Len(t, rep.Events, 4)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleReport(), "csv", false)
	require.Error(t, err)
}
