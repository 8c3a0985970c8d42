package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevisionReasonForMark(t *testing.T) {
	cases := []struct {
		mark MarkReason
		want RevisionReason
	}{
		{MarkGuess, RevisionMarkedGuess},
		{MarkTimePressure, RevisionMarkedTime},
		{MarkConceptError, RevisionMarkedConcept},
	}
	for _, tc := range cases {
		got, ok := RevisionReasonForMark(tc.mark)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got)
	}

	_, ok := RevisionReasonForMark(MarkReason("BOGUS"))
	assert.False(t, ok)
}
