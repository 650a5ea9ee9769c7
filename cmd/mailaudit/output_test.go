package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/mailaudit"
	"github.com/optimode/mailaudit/types"
)

func sampleResults() []mailaudit.Result {
	return []mailaudit.Result{
		{
			Email: "alice@example.com",
			Valid: true,
			Checks: []mailaudit.CheckResult{
				{Level: types.LevelSyntax, Passed: true, Details: "syntax ok"},
				{Level: types.LevelProbe, Passed: true, Details: "recipient accepted; synthetic recipients rejected",
					Existence: "exists", Confidence: 0.95, MXHost: "mx1.example.com"},
			},
		},
		{
			Email: "ghost@example.com",
			Valid: false,
			Checks: []mailaudit.CheckResult{
				{Level: types.LevelSyntax, Passed: true, Details: "syntax ok"},
				{Level: types.LevelProbe, Passed: false, Details: "recipient rejected with 550",
					Existence: "does-not-exist", Confidence: 0.95, MXHost: "mx1.example.com"},
			},
		},
	}
}

func TestWriteResults_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, "csv", sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email,valid,existence,confidence,mx_host,detail", lines[0])
	assert.Contains(t, lines[1], "alice@example.com,true,exists,0.95,mx1.example.com")
	assert.Contains(t, lines[2], "ghost@example.com,false,does-not-exist,0.95")
}

func TestWriteResults_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, "ndjson", sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var r mailaudit.Result
		assert.NoError(t, json.Unmarshal([]byte(line), &r))
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, "json", sampleResults()))

	var out []mailaudit.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "alice@example.com", out[0].Email)
}

func TestWriteResults_Human(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, "human", sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "VALID")
	assert.Contains(t, out, "[exists 0.95]")
	assert.Contains(t, out, "INVALID")
}

func TestDetailFor(t *testing.T) {
	results := sampleResults()
	assert.Equal(t, "recipient accepted; synthetic recipients rejected", detailFor(results[0]))
	assert.Equal(t, "recipient rejected with 550", detailFor(results[1]))
	assert.Equal(t, "", detailFor(mailaudit.Result{}))
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{CatchallProbes: 1, MaxMX: 2, Workers: 5, TimeoutDuration: 5 * time.Second}
		c.Positional.Addresses = []string{"a@example.com"}
		return c
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.CatchallProbes = 6
	assert.Error(t, c.Validate())

	c = valid()
	c.MaxMX = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Positional.Addresses = nil
	assert.Error(t, c.Validate())

	c = valid()
	c.Positional.Addresses = nil
	c.Stdin = true
	assert.NoError(t, c.Validate())
}
