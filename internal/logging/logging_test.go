package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger, err := New("info", buffer)
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	logger.Info().Str("user", "alice").Msg("logged in")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "logged in", record["message"])
	assert.Equal(t, "alice", record["user"])
	assert.Equal(t, "info", record["level"])

	_, err = New("loud", buffer)
	assert.Error(t, err)

	buffer.Reset()
	logger, err = New("", buffer)
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	assert.Empty(t, buffer.String())
}
