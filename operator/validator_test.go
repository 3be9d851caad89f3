package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

func TestWindowSupportValidator(t *testing.T) {
	cases := []struct {
		name     string
		strategy window.Strategy
		bounded  bool
		wantErr  bool
	}{
		{"bounded global default", window.GlobalDefault(), true, false},
		{"unbounded global default", window.GlobalDefault(), false, true},
		{"unbounded interval default", window.Strategy{Fn: window.IntervalWindows, Trigger: window.DefaultTrigger}, false, false},
		{"unbounded global early trigger", window.Strategy{Fn: window.GlobalWindows, Trigger: window.EarlyTrigger}, false, false},
		{"bounded interval default", window.Strategy{Fn: window.IntervalWindows, Trigger: window.DefaultTrigger}, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newWindowSupportValidator()
			err := v.validate(tc.strategy, tc.bounded)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsConfigurationError(err))
				assert.Contains(t, err.Error(), "will never emit")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWindowSupportValidatorFiresOnce(t *testing.T) {
	v := newWindowSupportValidator()
	require.Error(t, v.validate(window.GlobalDefault(), false))
	assert.NoError(t, v.validate(window.GlobalDefault(), false))
}
