package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestGradeTotalTreatsMissingAsZero(t *testing.T) {
	grade := Grade{Attendance: score(10)}
	require.Equal(t, 10.0, grade.Total())

	require.Equal(t, 0.0, Grade{}.Total())
}

func TestGradeTotalOrderInvariant(t *testing.T) {
	a := Grade{Attendance: score(10), Midterm: score(25), FinalExam: score(30)}
	b := Grade{FinalExam: score(30), Attendance: score(10), Midterm: score(25)}
	require.Equal(t, a.Total(), b.Total())
}

func TestLetterGradeBoundaries(t *testing.T) {
	cases := []struct {
		total  float64
		letter string
	}{
		{97.0, "A+"},
		{96.9, "A"},
		{93.0, "A"},
		{90.0, "A-"},
		{87.0, "B+"},
		{83.0, "B"},
		{80.0, "B-"},
		{77.0, "C+"},
		{73.0, "C"},
		{70.0, "C-"},
		{67.0, "D+"},
		{63.0, "D"},
		{60.0, "D-"},
		{59.9, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		grade := Grade{FinalExam: score(tc.total)}
		require.Equal(t, tc.letter, grade.LetterGrade(), "total=%v", tc.total)
	}
}

func TestGradeIsPassing(t *testing.T) {
	require.True(t, Grade{FinalExam: score(60)}.IsPassing(60))
	require.False(t, Grade{FinalExam: score(59.9)}.IsPassing(60))
}

func TestCollectionForRole(t *testing.T) {
	for role, want := range map[Role]string{
		RoleTeacher: CollectionTeacherInfo,
		RoleStudent: CollectionStudentInfo,
		RoleAdmin:   CollectionAdminInfo,
	} {
		got, err := CollectionForRole(role)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := CollectionForRole(Role("superuser"))
	require.Error(t, err)
}
