package profile

import (
	"testing"
	"time"

	"github.com/academix/records/internal/registration"
)

func enrolled(credits ...int) []registration.Enrollment {
	out := make([]registration.Enrollment, len(credits))
	for i, c := range credits {
		out[i] = registration.Enrollment{CourseID: int64(i + 1), Credits: c}
	}
	return out
}

func TestAssess(t *testing.T) {
	tests := []struct {
		name      string
		courses   []registration.Enrollment
		status    string
		standing  string
		classYear string
		remaining int
		progress  float64
	}{
		{"no courses", nil, StatusInactive, "Needs Improvement", "Freshman", 120, 0},
		{"below minimum", enrolled(2), StatusProbation, "Needs Improvement", "Freshman", 118, 1.7},
		{"exactly minimum", enrolled(3), StatusActive, "Needs Improvement", "Freshman", 117, 2.5},
		{"good standing", enrolled(4, 4, 4), StatusActive, "Good Standing", "Freshman", 108, 10},
		{"sophomore", enrolled(30), StatusActive, "Good Standing", "Sophomore", 90, 25},
		{"junior", enrolled(60, 29), StatusActive, "Good Standing", "Junior", 31, 74.2},
		{"senior", enrolled(90), StatusActive, "Good Standing", "Senior", 30, 75},
		{"graduated", enrolled(100, 20), StatusGraduated, "Good Standing", "Senior", 0, 100},
		{"beyond requirement", enrolled(150), StatusGraduated, "Good Standing", "Senior", 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.courses)
			if got.Status != tt.status {
				t.Errorf("Status = %q, want %q", got.Status, tt.status)
			}
			if got.Standing != tt.standing {
				t.Errorf("Standing = %q, want %q", got.Standing, tt.standing)
			}
			if got.ClassYear != tt.classYear {
				t.Errorf("ClassYear = %q, want %q", got.ClassYear, tt.classYear)
			}
			if got.CreditsRemaining != tt.remaining {
				t.Errorf("CreditsRemaining = %d, want %d", got.CreditsRemaining, tt.remaining)
			}
			if got.ProgressPercentage != tt.progress {
				t.Errorf("ProgressPercentage = %v, want %v", got.ProgressPercentage, tt.progress)
			}
			if got.Indicator != Indicators[tt.status] {
				t.Errorf("Indicator = %+v, want badge for %s", got.Indicator, tt.status)
			}
			if got.CourseCount != len(tt.courses) {
				t.Errorf("CourseCount = %d", got.CourseCount)
			}
		})
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		dob  string
		want int
	}{
		{"2000-06-15", 25},
		{"2000-06-16", 24},
		{"2000-01-01", 25},
	}
	for _, tt := range tests {
		got := Age(tt.dob, now)
		if got == nil || *got != tt.want {
			t.Errorf("Age(%s) = %v, want %d", tt.dob, got, tt.want)
		}
	}

	if got := Age("15/06/2000", now); got != nil {
		t.Errorf("Age(bad) = %d, want nil", *got)
	}
}

func TestEnrollmentDuration(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		want string
	}{
		{"2023-03-10", "2 years, 3 months"},
		{"2024-06-15", "1 year"},
		{"2025-05-01", "1 month"},
		{"2025-06-03", "12 days"},
		{"2025-06-15", "0 days"},
		{"not a date", "N/A"},
	}
	for _, tt := range tests {
		if got := EnrollmentDuration(tt.date, now); got != tt.want {
			t.Errorf("EnrollmentDuration(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
