package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"talentscreen/job-screening/internal/services"
)

func TestDefaultClassifier(t *testing.T) {
	classify := services.DefaultClassifier()

	tests := []struct {
		name string
		err  error
		want services.FailureClass
	}{
		{
			name: "rate limit marker is transient",
			err:  errors.New("rate_limit exceeded"),
			want: services.FailureTransient,
		},
		{
			name: "marker match is case insensitive",
			err:  errors.New("upstream RATE_LIMIT hit"),
			want: services.FailureTransient,
		},
		{
			name: "wrapped marker is still visible",
			err:  fmt.Errorf("pipeline stage cv: %w", errors.New("openrouter rate_limit exceeded (status 429)")),
			want: services.FailureTransient,
		},
		{
			name: "schema failure is permanent",
			err:  errors.New("failed to unmarshal JSON: unexpected end of input"),
			want: services.FailurePermanent,
		},
		{
			name: "timeout without marker is permanent (coarse heuristic)",
			err:  errors.New("context deadline exceeded"),
			want: services.FailurePermanent,
		},
		{
			name: "nil error is permanent",
			err:  nil,
			want: services.FailurePermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestNewSubstringClassifier_CustomMarkers(t *testing.T) {
	classify := services.NewSubstringClassifier("quota", "throttled")

	assert.Equal(t, services.FailureTransient, classify(errors.New("request throttled by upstream")))
	assert.Equal(t, services.FailureTransient, classify(errors.New("QUOTA exhausted")))
	assert.Equal(t, services.FailurePermanent, classify(errors.New("rate_limit exceeded")))
}
