package mailaudit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mailaudit"
)

func TestNew_SyntaxOnly(t *testing.T) {
	v := mailaudit.New()
	ctx := context.Background()

	res, err := v.Validate(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Len(t, res.Checks, 1)
	assert.Equal(t, mailaudit.LevelSyntax, res.Checks[0].Level)

	res, err = v.Validate(ctx, "invalid")
	assert.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestNew_InvalidProbeOptions(t *testing.T) {
	v := mailaudit.New().WithProbe(mailaudit.ProbeOptions{
		CatchallProbes: 6, // out of range
		MaxMX:          2,
	})
	_, err := v.Validate(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, mailaudit.ErrInvalidProbeOptions)

	v = mailaudit.New().WithProbe(mailaudit.ProbeOptions{
		CatchallProbes: 1,
		MaxMX:          0, // out of range
	})
	_, err = v.Validate(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, mailaudit.ErrInvalidProbeOptions)
}

func TestValidateMany(t *testing.T) {
	v := mailaudit.New()
	ctx := context.Background()

	emails := []string{"a@example.com", "b@example.com", "invalid"}
	results, err := v.ValidateMany(ctx, emails)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.True(t, results[0].Valid)
	assert.True(t, results[1].Valid)
	assert.False(t, results[2].Valid)
}

func TestValidateMany_ConfigErrorSurfaces(t *testing.T) {
	v := mailaudit.New().WithProbe(mailaudit.ProbeOptions{CatchallProbes: -1, MaxMX: 1})

	_, err := v.ValidateMany(context.Background(), []string{"a@example.com"})
	assert.ErrorIs(t, err, mailaudit.ErrInvalidProbeOptions)
}

func TestResult_FailedChecks(t *testing.T) {
	v := mailaudit.New()
	res, _ := v.Validate(context.Background(), "bad email")
	assert.Len(t, res.FailedChecks(), 1)
	assert.Equal(t, mailaudit.LevelSyntax, res.FailedChecks()[0].Level)
}

func TestResult_CheckFor(t *testing.T) {
	v := mailaudit.New()
	res, _ := v.Validate(context.Background(), "user@example.com")

	check, found := res.CheckFor(mailaudit.LevelSyntax)
	assert.True(t, found)
	assert.True(t, check.Passed)

	_, found = res.CheckFor(mailaudit.LevelDNS)
	assert.False(t, found) // DNS was not configured
}

func TestResult_Existence(t *testing.T) {
	v := mailaudit.New()
	res, _ := v.Validate(context.Background(), "user@example.com")

	existence, found := res.Existence()
	assert.False(t, found) // probe level was not configured
	assert.Equal(t, mailaudit.Indeterminate, existence)
}

func TestValidateAll(t *testing.T) {
	v := mailaudit.New()
	ctx := context.Background()

	res, err := v.ValidateAll(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = v.ValidateAll(ctx, "invalid")
	assert.NoError(t, err)
	assert.False(t, res.Valid)
}
