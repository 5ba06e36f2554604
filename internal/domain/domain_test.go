package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSetMembership(t *testing.T) {
	pending := NewPendingSet("QUE", "RUN")

	assert.True(t, pending.Contains("QUE"))
	assert.True(t, pending.Contains("RUN"))
	assert.False(t, pending.Contains("ANS"))
	assert.False(t, pending.Contains("OK"))
	assert.False(t, pending.Contains(VerdictUnknown))
}

func TestPendingSetSentinel(t *testing.T) {
	pending := NewPendingSet("TESTING", "SUBMITTED")
	assert.Equal(t, Verdict("TESTING"), pending.Sentinel())
}

func TestZeroPendingSetSentinelFallsBackToUnknown(t *testing.T) {
	var pending PendingSet
	assert.Equal(t, VerdictUnknown, pending.Sentinel())
}

func TestLanguageForFile(t *testing.T) {
	cases := []struct {
		path string
		want Language
	}{
		{"sol.java", LanguageJava},
		{"dir/sol.cpp", LanguageCpp},
		{"sol.CC", LanguageCpp},
		{"sol.cxx", LanguageCpp},
		{"sol.py", LanguagePython},
	}

	for _, tc := range cases {
		got, err := LanguageForFile(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}

func TestLanguageForFileUnknownExtension(t *testing.T) {
	_, err := LanguageForFile("sol.rs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sol.rs")
}

func TestParseLanguage(t *testing.T) {
	got, err := ParseLanguage("C++")
	require.NoError(t, err)
	assert.Equal(t, LanguageCpp, got)

	got, err = ParseLanguage("python")
	require.NoError(t, err)
	assert.Equal(t, LanguagePython, got)

	_, err = ParseLanguage("brainfuck")
	require.Error(t, err)
}

func TestLanguageFileExtension(t *testing.T) {
	assert.Equal(t, "java", LanguageJava.FileExtension())
	assert.Equal(t, "cpp", LanguageCpp.FileExtension())
	assert.Equal(t, "py", LanguagePython.FileExtension())
}

func TestPartialRefreshErrorMessage(t *testing.T) {
	err := &PartialRefreshError{Failed: []string{"123", "456"}}
	assert.Equal(t, "refresh failed for 2 of the requested items: 123, 456", err.Error())
}

func TestPartialRefreshErrorDeadlineOnly(t *testing.T) {
	err := &PartialRefreshError{DeadlineExceeded: true}
	assert.Equal(t, "refresh deadline exceeded", err.Error())
}

func TestPartialRefreshErrorFailedAndDeadline(t *testing.T) {
	err := &PartialRefreshError{Failed: []string{"9"}, DeadlineExceeded: true}
	assert.Contains(t, err.Error(), "9")
	assert.Contains(t, err.Error(), "deadline exceeded")
}
