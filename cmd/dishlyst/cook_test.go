package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/robertmeta/dishlyst/cooking"
	"github.com/robertmeta/dishlyst/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimer(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "5", want: 5 * time.Minute},
		{in: "90s", want: 90 * time.Second},
		{in: "1m30s", want: 90 * time.Second},
		{in: "", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "1440", want: 24 * time.Hour},
		{in: "1441", wantErr: true},
		{in: "153722867280912931", wantErr: true},
		{in: "25h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimer(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimer_ListsQuickTimers(t *testing.T) {
	_, err := parseTimer("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1, 5, 10, 15, 20 minutes")
}

func TestRunCookLoop(t *testing.T) {
	recipe := model.Recipe{
		ID:           "52772",
		Name:         "Teriyaki Chicken Casserole",
		Instructions: "1. Preheat oven.\n2. Combine sauce.\n3. Bake.",
		Ingredients: []model.Ingredient{
			{Slot: 1, Name: "soy sauce", Measure: "3/4 cup"},
			{Slot: 2, Name: "water", Measure: "1/2 cup"},
		},
	}
	session := cooking.NewSession(recipe)
	require.NoError(t, session.Start())
	defer session.Exit()

	var buf strings.Builder
	out := func(format string, args ...interface{}) { fmt.Fprintf(&buf, format, args...) }

	input := strings.Join([]string{"n", "n", "n", "p", "g 9", "x 2", "t 10", "bogus", "q", "n"}, "\n")
	require.NoError(t, runCookLoop(strings.NewReader(input), out, session))

	got := buf.String()
	assert.Contains(t, got, "Step 2 of 3 (67%)\n  Combine sauce.")
	assert.Contains(t, got, "Step 3 of 3 (100%)\n  Bake.")
	assert.Contains(t, got, "That's the last step.")
	assert.Contains(t, got, "Already on the last step.")
	assert.Contains(t, got, `No step "9".`)
	assert.Contains(t, got, "[x] 1/2 cup water")
	assert.Contains(t, got, "Timer set for 10:00.")
	assert.Contains(t, got, `Unknown command "bogus".`)

	// q stops the loop before the trailing n.
	assert.Equal(t, 1, session.CurrentIndex())
	assert.NotNil(t, session.Timer())
}
