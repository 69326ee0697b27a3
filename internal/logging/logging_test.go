package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Options{Level: "debug", Format: "json", Out: &buf})
	require.NoError(t, err)

	logger.WithField("entry_id", 7).Debug("logged entry")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "logged entry", line["msg"])
	assert.EqualValues(t, 7, line["entry_id"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestSetupDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Options{Out: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestSetupRejectsBadInput(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
	_, err = Setup(Options{Format: "xml"})
	assert.Error(t, err)
}
