package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scitech-bot/internal/constant"
	"scitech-bot/pkg/events"
	"scitech-bot/pkg/nlp"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	t.Setenv("LOG_FILE_PATH", filepath.Join(t.TempDir(), "console.log"))
	t.Setenv("OPERATION_MODE", "basic")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("NATS_URL", "")
	t.Setenv("ANALYZER_URL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := executeCLI(t, "", "config")
	require.NoError(t, err)

	assert.Contains(t, out, constant.BotName)
	assert.Contains(t, out, "Modo:        basic")
	assert.Contains(t, out, "Sentimiento: desactivado")
}

func TestConfigCommand_JSONWithModeOverride(t *testing.T) {
	out, err := executeCLI(t, "", "config", "--json", "--mode", "sentiment")
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "sentiment", summary["modo"])
	assert.Equal(t, true, summary["sentiment_enabled"])
	assert.Equal(t, false, summary["llm_enabled"])
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := executeCLI(t, "", "analyze", "--json", "los", "robots", "aprenden")
	require.NoError(t, err)

	var records []nlp.TokenRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "robots", records[1].Text)
}

func TestAnalyzeCommand_RequiresText(t *testing.T) {
	_, err := executeCLI(t, "", "analyze")
	assert.Error(t, err)
}

func TestChatCommand_Script(t *testing.T) {
	out, err := executeCLI(t, "hola\nmarte\nsalir\n", "chat", "--session", "cli-test")
	require.NoError(t, err)

	assert.Contains(t, out, "Bienvenido a "+constant.BotName)
	assert.Contains(t, out, "Perseverance")
	assert.Contains(t, out, "tema: espacio")
	assert.Contains(t, out, constant.FarewellMessage)
}

func TestChatCommand_EndsOnEOF(t *testing.T) {
	out, err := executeCLI(t, "marte\n", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "salúdame")
	assert.Contains(t, out, constant.FarewellMessage)
}

func TestChatCommand_AnalysisPane(t *testing.T) {
	out, err := executeCLI(t, "hola\nanalizar: el sol brilla\nexit\n", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "brilla")
	assert.NotContains(t, out, "Bot: "+constant.AnalyzeUnavailableHint)
}

func TestWatchCommand_RequiresNats(t *testing.T) {
	_, err := executeCLI(t, "", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NATS_URL")
}

func TestFormatEvent(t *testing.T) {
	color.NoColor = true
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	turn := events.TurnEvent{
		Type: events.TypeTurnCompleted, SessionID: "s1", Message: "marte",
		Reply: "Marte es...", Rule: "topic", OccurredAt: at,
	}
	assert.Equal(t, "15:04:05 s1 [topic] marte -> Marte es...", formatEvent(turn))

	rejected := events.BaseEvent{
		Type:       events.TypeMessageRejected,
		Data:       map[string]interface{}{"session_id": "s2", "rechazo": "numeric_only", "mensaje": "123"},
		OccurredAt: at,
	}
	assert.Equal(t, "15:04:05 s2 rechazado (numeric_only): 123", formatEvent(rejected))

	reset := events.TurnEvent{Type: events.TypeSessionReset, SessionID: "s3", OccurredAt: at}
	assert.Equal(t, "15:04:05 s3 sesión reiniciada", formatEvent(reset))
}
