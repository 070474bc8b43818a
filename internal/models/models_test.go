package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSet(t *testing.T) {
	s := NewSkillSet(" Python ", "DJANGO", "", "python", "Machine   Learning")

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("python"))
	assert.True(t, s.Has("PYTHON"))
	assert.True(t, s.Has("machine learning"))
	assert.Equal(t, []string{"django", "machine learning", "python"}, s.Sorted())

	grown := s.With("Go")
	assert.True(t, grown.Has("go"))
	assert.False(t, s.Has("go"), "With must not mutate the receiver")
}

func TestSkillSetJSON(t *testing.T) {
	var c CandidateFeatures
	require.NoError(t, json.Unmarshal([]byte(`{"skills":["React","react","AWS"],"totalExperienceYears":4}`), &c))
	assert.Equal(t, 2, c.Skills.Len())

	out, err := json.Marshal(c.Skills)
	require.NoError(t, err)
	assert.JSONEq(t, `["aws","react"]`, string(out))
}

func TestNormalizeSkills(t *testing.T) {
	assert.Equal(t, []string{"python", "django"}, NormalizeSkills([]string{"Python", "django", " PYTHON", ""}))
	assert.Empty(t, NormalizeSkills(nil))
}

func TestPreferencesIsEmpty(t *testing.T) {
	var nilPrefs *Preferences
	assert.True(t, nilPrefs.IsEmpty())
	assert.True(t, (&Preferences{}).IsEmpty())
	assert.False(t, (&Preferences{RemotePreference: RemoteHybrid}).IsEmpty())
}

func TestPoolCriteriaToJobCriteria(t *testing.T) {
	maxExp := 8
	tests := []struct {
		name         string
		pool         PoolCriteria
		wantLocation string
		wantRemote   bool
	}{
		{
			name:         "first location and remote flag",
			pool:         PoolCriteria{Locations: []string{"Austin, TX", "Remote (US)"}, MaxExperience: &maxExp},
			wantLocation: "Austin, TX",
			wantRemote:   true,
		},
		{
			name:         "onsite only",
			pool:         PoolCriteria{Locations: []string{"Berlin"}},
			wantLocation: "Berlin",
		},
		{
			name: "no locations",
			pool: PoolCriteria{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jc := tt.pool.ToJobCriteria()
			assert.Equal(t, tt.wantLocation, jc.Location)
			assert.Equal(t, tt.wantRemote, jc.RemoteOK)
			assert.Equal(t, JobTypeFullTime, jc.JobType)
			assert.Equal(t, tt.pool.MaxExperience, jc.MaxExperience)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Job{ID: "j-1", Status: JobStatusActive, Criteria: JobCriteria{JobType: JobTypeContract}}))
	assert.Error(t, Validate(Job{Status: JobStatusActive}), "id is required")
	assert.Error(t, Validate(Job{ID: "j-1", Criteria: JobCriteria{JobType: "gig"}}))
	assert.Error(t, Validate(Job{ID: "j-1", Status: "archived"}))
	assert.Error(t, Validate(Candidate{}))
}

func TestRemotePreferenceValid(t *testing.T) {
	assert.True(t, RemoteHybrid.Valid())
	assert.False(t, RemotePreference("sometimes").Valid())
}
