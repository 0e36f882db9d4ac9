package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func step(name string, optional bool, collected int, err error) Step {
	return NewCollector(name, optional, func(context.Context) (int, error) {
		return collected, err
	})
}

func TestRunProceedsWithOneMandatorySource(t *testing.T) {
	t.Parallel()

	result, err := Run(context.Background(), zap.NewNop(), []Step{
		step("api", false, 0, fmt.Errorf("network down")),
		step("github", false, 12, nil),
		step("scrape", true, 0, fmt.Errorf("no credits")),
	})

	require.NoError(t, err)
	assert.Equal(t, 12, result.Collected())
	assert.Equal(t, 12, result.Reports["github"].Collected)
	assert.Len(t, result.Errors, 2)
}

func TestRunHaltsWhenMandatorySourcesEmpty(t *testing.T) {
	t.Parallel()

	result, err := Run(context.Background(), zap.NewNop(), []Step{
		step("api", false, 0, nil),
		step("github", false, 0, fmt.Errorf("rate limited")),
		step("scrape", true, 40, nil),
	})

	assert.ErrorIs(t, err, ErrNoMandatoryData)
	// Optional data alone never satisfies the gate.
	assert.Equal(t, 40, result.Collected())
}

func TestRunExecutesAllStepsInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) Step {
		return NewCollector(name, false, func(context.Context) (int, error) {
			order = append(order, name)
			return 1, nil
		})
	}

	_, err := Run(context.Background(), zap.NewNop(), []Step{mk("a"), mk("b"), mk("c")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	_, err := Run(ctx, zap.NewNop(), []Step{
		NewCollector("api", false, func(context.Context) (int, error) {
			ran = true
			return 1, nil
		}),
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
