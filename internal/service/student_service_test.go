package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-08-24 is a Monday, which is also the day AddWeek seeds.
var (
	aMonday = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	aSunday = time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
)

func TestTodaysWorkoutMatchesWeekday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plan, session, _ := env.seedPlanWithPrescription(t, 3, "8|8|6")

	today, err := env.students.TodaysWorkout(ctx, env.studentA.ID, aMonday)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, today.Plan.ID)
	assert.Equal(t, "Monday", today.DayName)
	require.NotNil(t, today.Session)
	assert.Equal(t, session.ID, today.Session.Session.ID)
	require.Len(t, today.Session.Exercises, 1)
	assert.Equal(t, []int{8, 8, 6}, today.Session.Exercises[0].TargetReps)
}

func TestTodaysWorkoutNothingScheduled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedPlanWithPrescription(t, 3, "10")

	today, err := env.students.TodaysWorkout(ctx, env.studentA.ID, aSunday)
	require.NoError(t, err)
	assert.Equal(t, "Sunday", today.DayName)
	assert.Nil(t, today.Session)
}

func TestTodaysWorkoutNoActivePlan(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.TodaysWorkout(context.Background(), env.studentA.ID, aMonday)
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestTodaysWorkoutPicksEarliestMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plan, err := env.planner.CreateTrainingPlan(ctx, env.coachA, env.studentA.ID, "Block", nil, true)
	require.NoError(t, err)

	week1, err := env.planner.AddWeek(ctx, env.coachA, plan.ID)
	require.NoError(t, err)
	_, err = env.planner.AddWeek(ctx, env.coachA, plan.ID)
	require.NoError(t, err)

	today, err := env.students.TodaysWorkout(ctx, env.studentA.ID, aMonday)
	require.NoError(t, err)
	require.NotNil(t, today.Session)
	assert.Equal(t, week1.ID, today.Session.Session.ID)
}

func TestRecordWorkoutLogsSkipsBlankSets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, prescription := env.seedPlanWithPrescription(t, 3, "10")

	created, err := env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 1, WeightKg: floatPtr(80), RepsPerformed: intPtr(10), RPEActual: floatPtr(7)},
		{SetNumber: 2},
		{SetNumber: 3},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, 1, created[0].SetNumber)

	logs, err := env.students.GetMyLogs(ctx, env.studentA.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRecordWorkoutLogsNotesOnlySetCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, prescription := env.seedPlanWithPrescription(t, 3, "10")

	created, err := env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 2, StudentNotes: "knee felt off, skipped weight"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Nil(t, created[0].WeightKg)
	assert.Equal(t, "knee felt off, skipped weight", created[0].StudentNotes)
}

func TestRecordWorkoutLogsRejectsEmptyBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, prescription := env.seedPlanWithPrescription(t, 3, "10")

	_, err := env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 1}, {SetNumber: 2, StudentNotes: "   "},
	})
	assert.ErrorIs(t, err, ErrEmptyWorkoutLog)

	logs, err := env.students.GetMyLogs(ctx, env.studentA.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRecordWorkoutLogsValidatesSetNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, prescription := env.seedPlanWithPrescription(t, 3, "10")

	_, err := env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 4, WeightKg: floatPtr(80)},
	})
	assert.ErrorIs(t, err, ErrInvalidSetNumber)

	_, err = env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 0, WeightKg: floatPtr(80)},
	})
	assert.ErrorIs(t, err, ErrInvalidSetNumber)

	// A bad set number anywhere rejects the whole batch.
	_, err = env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 1, WeightKg: floatPtr(80)},
		{SetNumber: 9, WeightKg: floatPtr(80)},
	})
	assert.ErrorIs(t, err, ErrInvalidSetNumber)
	logs, err := env.students.GetMyLogs(ctx, env.studentA.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRecordWorkoutLogsOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, prescription := env.seedPlanWithPrescription(t, 3, "10")

	_, err := env.students.RecordWorkoutLogs(ctx, env.studentB.ID, prescription.ID, []SetEntry{
		{SetNumber: 1, WeightKg: floatPtr(60)},
	})
	assert.ErrorIs(t, err, ErrNotYourWorkout)
}

func TestGetLogsForPrescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, prescription := env.seedPlanWithPrescription(t, 3, "10")

	_, err := env.students.RecordWorkoutLogs(ctx, env.studentA.ID, prescription.ID, []SetEntry{
		{SetNumber: 2, WeightKg: floatPtr(82.5), RepsPerformed: intPtr(9)},
		{SetNumber: 1, WeightKg: floatPtr(80), RepsPerformed: intPtr(10)},
	})
	require.NoError(t, err)

	logs, err := env.students.GetLogsForPrescription(ctx, env.studentA.ID, prescription.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 1, logs[0].SetNumber)
	assert.Equal(t, 2, logs[1].SetNumber)
}

func TestGetRoutineRequiresActivePlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.students.GetRoutine(ctx, env.studentA.ID)
	assert.ErrorIs(t, err, ErrNoActivePlan)

	env.seedPlanWithPrescription(t, 2, "12")
	routine, err := env.students.GetRoutine(ctx, env.studentA.ID)
	require.NoError(t, err)
	require.Len(t, routine.Sessions, 1)
	assert.Equal(t, []int{12, 12}, routine.Sessions[0].Exercises[0].TargetReps)
}
