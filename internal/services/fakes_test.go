package services

import (
	"time"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/types"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

type fakePhaseRepo struct {
	phases []*types.ProtocolPhase
}

func (f *fakePhaseRepo) ListByTemplateOrdered(_ dbctx.Context, _ uint) ([]*types.ProtocolPhase, error) {
	return f.phases, nil
}

func (f *fakePhaseRepo) GetFirstByTemplate(_ dbctx.Context, _ uint) (*types.ProtocolPhase, error) {
	if len(f.phases) == 0 {
		return nil, nil
	}
	return f.phases[0], nil
}

type fakeRunRepo struct {
	runs map[uint]*types.ProtocolRun
}

func (f *fakeRunRepo) Create(_ dbctx.Context, run *types.ProtocolRun) error {
	run.ID = uint(len(f.runs) + 1)
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) GetByID(_ dbctx.Context, id uint) (*types.ProtocolRun, error) {
	return f.runs[id], nil
}

func (f *fakeRunRepo) GetWithTemplate(_ dbctx.Context, id uint) (*types.ProtocolRun, error) {
	return f.runs[id], nil
}

func (f *fakeRunRepo) UpdateFields(_ dbctx.Context, id uint, updates map[string]interface{}) error {
	run := f.runs[id]
	if v, ok := updates["current_phase_id"].(uint); ok {
		run.CurrentPhaseID = &v
	}
	if v, ok := updates["status"].(string); ok {
		run.Status = v
	}
	if v, ok := updates["completed_at"].(time.Time); ok {
		run.CompletedAt = &v
	}
	return nil
}

type fakeInstanceRepo struct {
	instances []*types.ArtifactInstance
}

func (f *fakeInstanceRepo) Create(_ dbctx.Context, instance *types.ArtifactInstance) error {
	instance.ID = uint(len(f.instances) + 1)
	f.instances = append(f.instances, instance)
	return nil
}

func (f *fakeInstanceRepo) ListByRun(_ dbctx.Context, runID uint) ([]*types.ArtifactInstance, error) {
	var out []*types.ArtifactInstance
	for _, instance := range f.instances {
		if instance.ProtocolRunID == runID {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeInstanceRepo) GetLatestByRunAndKey(_ dbctx.Context, runID uint, artifactKey string) (*types.ArtifactInstance, error) {
	var latest *types.ArtifactInstance
	for _, instance := range f.instances {
		if instance.ProtocolRunID != runID || instance.ArtifactDefinition == nil {
			continue
		}
		if instance.ArtifactDefinition.ArtifactKey != artifactKey {
			continue
		}
		if latest == nil || instance.CollectedAt.After(latest.CollectedAt) {
			latest = instance
		}
	}
	return latest, nil
}

func (f *fakeInstanceRepo) CountByRunAndKey(_ dbctx.Context, runID uint, artifactKey string) (int64, error) {
	var count int64
	for _, instance := range f.instances {
		if instance.ProtocolRunID == runID && instance.ArtifactDefinition != nil && instance.ArtifactDefinition.ArtifactKey == artifactKey {
			count++
		}
	}
	return count, nil
}

type fakeGeneratedRepo struct {
	items []*types.ProtocolGeneratedItem
}

func (f *fakeGeneratedRepo) GetByRunAndIntervention(_ dbctx.Context, runID, interventionTemplateID uint) (*types.ProtocolGeneratedItem, error) {
	for _, item := range f.items {
		if item.ProtocolRunID == runID && item.InterventionTemplateID == interventionTemplateID {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeGeneratedRepo) Create(_ dbctx.Context, item *types.ProtocolGeneratedItem) error {
	item.ID = uint(len(f.items) + 1)
	f.items = append(f.items, item)
	return nil
}

func (f *fakeGeneratedRepo) ListByRun(_ dbctx.Context, runID uint) ([]*types.ProtocolGeneratedItem, error) {
	var out []*types.ProtocolGeneratedItem
	for _, item := range f.items {
		if item.ProtocolRunID == runID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeGeneratedRepo) CountByRun(_ dbctx.Context, runID uint) (int64, error) {
	items, _ := f.ListByRun(dbctx.Context{}, runID)
	return int64(len(items)), nil
}

type fakeLedgerRepo struct {
	entries []*types.PointsLedger
}

func (f *fakeLedgerRepo) Create(_ dbctx.Context, entry *types.PointsLedger) error {
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) CreateIdempotent(_ dbctx.Context, entry *types.PointsLedger) (bool, error) {
	if entry.DedupeKey != nil {
		for _, existing := range f.entries {
			if existing.DedupeKey != nil && *existing.DedupeKey == *entry.DedupeKey {
				return false, nil
			}
		}
	}
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return true, nil
}

func (f *fakeLedgerRepo) ExistsAward(_ dbctx.Context, userID uint, eventType, description string, referenceID *uint) (bool, error) {
	for _, entry := range f.entries {
		if entry.UserID != userID || entry.EventType != eventType || entry.Description != description {
			continue
		}
		if referenceID != nil && (entry.EventReferenceID == nil || *entry.EventReferenceID != *referenceID) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeLedgerRepo) SumPoints(_ dbctx.Context, userID uint, programID *uint) (int64, error) {
	var sum int64
	for _, entry := range f.entries {
		if entry.UserID != userID {
			continue
		}
		if programID != nil && (entry.ProgramID == nil || *entry.ProgramID != *programID) {
			continue
		}
		sum += int64(entry.Points)
	}
	return sum, nil
}

type fakeRewardRepo struct {
	values map[string]int
}

func (f *fakeRewardRepo) GetValue(_ dbctx.Context, key string) (*int, error) {
	if value, ok := f.values[key]; ok {
		return &value, nil
	}
	return nil, nil
}

func (f *fakeRewardRepo) LoadMap(_ dbctx.Context) (map[string]int, error) {
	out := map[string]int{}
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

type fakeProgramRepo struct {
	programs []*types.Program
}

func (f *fakeProgramRepo) GetByID(_ dbctx.Context, id uint) (*types.Program, error) {
	for _, program := range f.programs {
		if program.ID == id {
			return program, nil
		}
	}
	return nil, nil
}

func (f *fakeProgramRepo) GetLatestByName(_ dbctx.Context, name string) (*types.Program, error) {
	var latest *types.Program
	for _, program := range f.programs {
		if program.Name == name && (latest == nil || program.ID > latest.ID) {
			latest = program
		}
	}
	return latest, nil
}

func (f *fakeProgramRepo) Create(_ dbctx.Context, program *types.Program) error {
	program.ID = uint(len(f.programs) + 1)
	f.programs = append(f.programs, program)
	return nil
}

type fakeHabitRepo struct {
	habits []*types.Habit
}

func (f *fakeHabitRepo) GetByID(_ dbctx.Context, id uint) (*types.Habit, error) {
	for _, habit := range f.habits {
		if habit.ID == id {
			return habit, nil
		}
	}
	return nil, nil
}

func (f *fakeHabitRepo) Create(_ dbctx.Context, habit *types.Habit) error {
	habit.ID = uint(len(f.habits) + 1)
	f.habits = append(f.habits, habit)
	return nil
}

func (f *fakeHabitRepo) ListByProgram(_ dbctx.Context, programID uint) ([]*types.Habit, error) {
	var out []*types.Habit
	for _, habit := range f.habits {
		if habit.ProgramID == programID {
			out = append(out, habit)
		}
	}
	return out, nil
}

func (f *fakeHabitRepo) ProgramIDByHabit(_ dbctx.Context) (map[uint]uint, error) {
	out := map[uint]uint{}
	for _, habit := range f.habits {
		out[habit.ID] = habit.ProgramID
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	enrollments []*types.Enrollment
}

func (f *fakeEnrollmentRepo) Exists(_ dbctx.Context, userID, programID uint) (bool, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID && enrollment.ProgramID == programID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) Create(_ dbctx.Context, enrollment *types.Enrollment) error {
	enrollment.ID = uint(len(f.enrollments) + 1)
	f.enrollments = append(f.enrollments, enrollment)
	return nil
}

type fakeInterventionRepo struct {
	templates []*types.InterventionTemplate
}

func (f *fakeInterventionRepo) ListByTemplate(_ dbctx.Context, templateID uint) ([]*types.InterventionTemplate, error) {
	var out []*types.InterventionTemplate
	for _, template := range f.templates {
		if template.ProtocolTemplateID == templateID {
			out = append(out, template)
		}
	}
	return out, nil
}

type fakeTemplateRepo struct {
	templates []*types.ProtocolTemplate
}

func (f *fakeTemplateRepo) GetByID(_ dbctx.Context, id uint) (*types.ProtocolTemplate, error) {
	for _, template := range f.templates {
		if template.ID == id {
			return template, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplateRepo) GetActiveByCode(_ dbctx.Context, code string) (*types.ProtocolTemplate, error) {
	for _, template := range f.templates {
		if template.Code == code && template.IsActive {
			return template, nil
		}
	}
	return nil, nil
}

type fakeDefinitionRepo struct {
	definitions []*types.ArtifactDefinition
}

func (f *fakeDefinitionRepo) GetByTemplateAndKey(_ dbctx.Context, templateID uint, artifactKey string) (*types.ArtifactDefinition, error) {
	for _, definition := range f.definitions {
		if definition.ProtocolTemplateID == templateID && definition.ArtifactKey == artifactKey {
			return definition, nil
		}
	}
	return nil, nil
}

type fakeStreakRepo struct {
	streaks []*types.Streak
}

func (f *fakeStreakRepo) GetByUserAndHabit(_ dbctx.Context, userID, habitID uint) (*types.Streak, error) {
	for _, streak := range f.streaks {
		if streak.UserID == userID && streak.HabitID != nil && *streak.HabitID == habitID {
			return streak, nil
		}
	}
	return nil, nil
}

func (f *fakeStreakRepo) Create(_ dbctx.Context, streak *types.Streak) error {
	streak.ID = uint(len(f.streaks) + 1)
	f.streaks = append(f.streaks, streak)
	return nil
}

func (f *fakeStreakRepo) Save(_ dbctx.Context, _ *types.Streak) error {
	return nil
}

func (f *fakeStreakRepo) ListByUser(_ dbctx.Context, userID uint) ([]*types.Streak, error) {
	var out []*types.Streak
	for _, streak := range f.streaks {
		if streak.UserID == userID {
			out = append(out, streak)
		}
	}
	return out, nil
}

func (f *fakeStreakRepo) MaxLongestByUser(_ dbctx.Context, userID uint) (int, error) {
	max := 0
	for _, streak := range f.streaks {
		if streak.UserID == userID && streak.LongestStreak > max {
			max = streak.LongestStreak
		}
	}
	return max, nil
}

func (f *fakeStreakRepo) HasActiveStreakEndingOn(_ dbctx.Context, userID uint, date time.Time) (bool, error) {
	for _, streak := range f.streaks {
		if streak.UserID != userID || streak.CurrentStreak == 0 || streak.LastCheckInDate == nil {
			continue
		}
		if streak.LastCheckInDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

var (
	_ repos.StreakRepo                = (*fakeStreakRepo)(nil)
	_ repos.ProtocolPhaseRepo         = (*fakePhaseRepo)(nil)
	_ repos.ProtocolRunRepo           = (*fakeRunRepo)(nil)
	_ repos.ArtifactInstanceRepo      = (*fakeInstanceRepo)(nil)
	_ repos.ProtocolGeneratedItemRepo = (*fakeGeneratedRepo)(nil)
	_ repos.PointsLedgerRepo          = (*fakeLedgerRepo)(nil)
	_ repos.RewardConfigRepo          = (*fakeRewardRepo)(nil)
	_ repos.ProgramRepo               = (*fakeProgramRepo)(nil)
	_ repos.HabitRepo                 = (*fakeHabitRepo)(nil)
	_ repos.EnrollmentRepo            = (*fakeEnrollmentRepo)(nil)
	_ repos.InterventionTemplateRepo  = (*fakeInterventionRepo)(nil)
	_ repos.ProtocolTemplateRepo      = (*fakeTemplateRepo)(nil)
	_ repos.ArtifactDefinitionRepo    = (*fakeDefinitionRepo)(nil)
)
