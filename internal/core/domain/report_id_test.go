package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportIDPrefix(t *testing.T) {
	june2025 := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "WNC2506", ReportIDPrefix(june2025))

	jan2031 := time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "WNC3101", ReportIDPrefix(jan2031))
}

func TestNextReportID(t *testing.T) {
	june2025 := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "WNC25060008", NextReportID(june2025, "WNC25060007"))
	assert.Equal(t, "WNC25060001", NextReportID(june2025, ""))

	// A stale id from a previous month restarts the sequence.
	assert.Equal(t, "WNC25060001", NextReportID(june2025, "WNC25050031"))

	// Malformed suffixes fall back to the start of the sequence.
	assert.Equal(t, "WNC25060001", NextReportID(june2025, "WNC2506007"))
	assert.Equal(t, "WNC25060001", NextReportID(june2025, "WNC2506ABCD"))
}

func TestNextReportID_SequenceIsZeroPadded(t *testing.T) {
	june2025 := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "WNC25060100", NextReportID(june2025, "WNC25060099"))
	assert.Equal(t, "WNC25061000", NextReportID(june2025, "WNC25060999"))
}
