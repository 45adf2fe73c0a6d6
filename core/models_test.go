package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("python, fastapi")
	id2 := IDFromContent("python, fastapi")
	id3 := IDFromContent("python, django")

	assert.Equal(t, id1, id2, "identical content must produce identical IDs")
	assert.NotEqual(t, id1, id3)
}

func TestPointIDs_Deterministic(t *testing.T) {
	assert.Equal(t, "cv_100000_skills", SkillPointID("cv_100000"))
	assert.Equal(t, "cv_100000_exp_0", ExperiencePointID("cv_100000", 0))
	assert.Equal(t, "cv_100000_exp_7", ExperiencePointID("cv_100000", 7))
}

func TestExperienceYears(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item ExperienceItem
		want int
	}{
		{
			name: "closed range",
			item: ExperienceItem{
				StartDate: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			want: 4,
		},
		{
			name: "current role",
			item: ExperienceItem{
				StartDate: time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
				Current:   true,
			},
			want: 6,
		},
		{
			name: "no dates",
			item: ExperienceItem{Description: "did things"},
			want: -1,
		},
		{
			name: "inverted range",
			item: ExperienceItem{
				StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Years(now))
		})
	}
}

func TestParseAvailabilityStatus(t *testing.T) {
	for _, status := range []AvailabilityStatus{StatusFree, StatusPartial, StatusBusy, StatusUnavailable} {
		parsed, err := ParseAvailabilityStatus(status.String())
		assert.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := ParseAvailabilityStatus("on-vacation")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
