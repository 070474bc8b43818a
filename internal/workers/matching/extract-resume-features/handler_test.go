// internal/workers/matching/extract-resume-features/handler_test.go
package extractresumefeatures

import (
	"context"
	"errors"
	"testing"
	"time"

	"match-workers/internal/common/clock"
	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"
	"match-workers/internal/models"
	"match-workers/internal/resume"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Indexer
// ==========================

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexCandidate(ctx context.Context, c models.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type failingNames struct{}

func (failingNames) RecognizeName(string) (string, error) { return "", errors.New("model unavailable") }

// ==========================
// Test Helpers
// ==========================

const resumeText = `Bob Martinez
Seattle, WA
bob@example.com

EXPERIENCE
Software Engineer at Contoso
2019 - 2023
- Built Go and PostgreSQL services

SKILLS
Go, PostgreSQL, Docker
`

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func newExtractor(names resume.NameRecognizer) *resume.Extractor {
	return resume.New(resume.Options{
		Clock: clock.Fixed(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)),
		Names: names,
	})
}

// ==========================
// Execute
// ==========================

func TestExecute_Extracts(t *testing.T) {
	h := NewHandler(createTestConfig(), newExtractor(nil), nil, logger.NewTestLogger(t))
	before := testutil.ToFloat64(metrics.ResumeExtractions.WithLabelValues("complete"))

	out, err := h.Execute(context.Background(), &Input{ResumeText: resumeText})
	require.NoError(t, err)

	assert.True(t, out.Features.Skills.Has("go"))
	assert.True(t, out.Features.Skills.Has("postgresql"))
	assert.Equal(t, "Seattle, WA", out.Features.Location)
	assert.Equal(t, "bob@example.com", out.Profile.Contact.Email)
	assert.False(t, out.Partial)
	assert.False(t, out.Indexed)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ResumeExtractions.WithLabelValues("complete")))
}

func TestExecute_EmptyResume(t *testing.T) {
	h := NewHandler(createTestConfig(), newExtractor(nil), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{ResumeText: ""})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Features.Skills.Len())
	assert.Equal(t, 0.0, out.Features.TotalExperienceYears)
}

func TestExecute_PartialExtraction(t *testing.T) {
	h := NewHandler(createTestConfig(), newExtractor(failingNames{}), nil, logger.NewTestLogger(t))
	before := testutil.ToFloat64(metrics.ResumeExtractions.WithLabelValues("partial"))

	out, err := h.Execute(context.Background(), &Input{ResumeText: resumeText})
	require.NoError(t, err)

	assert.True(t, out.Partial)
	assert.NotEmpty(t, out.Profile.ParsingErrors)
	assert.True(t, out.Features.Skills.Has("go"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ResumeExtractions.WithLabelValues("partial")))
}

// ==========================
// Indexing
// ==========================

func TestExecute_IndexCandidate(t *testing.T) {
	idx := new(MockIndexer)
	idx.On("IndexCandidate", mock.Anything, mock.MatchedBy(func(c models.Candidate) bool {
		return c.ID == "cand-9" && c.Name == "Bob Martinez" && c.Features.Skills.Has("go")
	})).Return(nil).Once()

	h := NewHandler(createTestConfig(), newExtractor(nil), idx, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		CandidateID:    "cand-9",
		ResumeText:     resumeText,
		IndexCandidate: true,
	})
	require.NoError(t, err)
	assert.True(t, out.Indexed)
	idx.AssertExpectations(t)
}

func TestExecute_IndexFailures(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		indexErr    error
		wantCode    apperrors.ErrorCode
		expectIndex bool
	}{
		{
			name:     "candidate id required",
			input:    &Input{ResumeText: resumeText, IndexCandidate: true},
			wantCode: apperrors.ErrCodeUnrecoverableInput,
		},
		{
			name:        "search backend error",
			input:       &Input{CandidateID: "cand-9", ResumeText: resumeText, IndexCandidate: true},
			indexErr:    apperrors.NewSearchError("index_candidate", errors.New("503")),
			wantCode:    apperrors.ErrCodeSearchError,
			expectIndex: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := new(MockIndexer)
			if tt.expectIndex {
				idx.On("IndexCandidate", mock.Anything, mock.Anything).Return(tt.indexErr).Once()
			}
			h := NewHandler(createTestConfig(), newExtractor(nil), idx, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode))
			idx.AssertExpectations(t)
		})
	}
}

func TestExecute_IndexWithoutIndexer(t *testing.T) {
	h := NewHandler(createTestConfig(), newExtractor(nil), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		CandidateID:    "cand-9",
		ResumeText:     resumeText,
		IndexCandidate: true,
	})
	require.NoError(t, err)
	assert.False(t, out.Indexed)
}
