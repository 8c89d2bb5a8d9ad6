package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/apierr"
	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/types"
)

// milestoneDefaultPoints applies when no reward config row overrides the
// milestone's points.
var milestoneDefaultPoints = map[string]int{
	types.PhaseTriage:   25,
	types.PhaseBaseline: 50,
	types.PhaseRetest:   75,
}

const milestoneFallbackPoints = 20

type PhaseAdvanceResult struct {
	Advanced     bool    `json:"advanced"`
	CurrentPhase *string `json:"current_phase"`
}

type GenerateInterventionsResult struct {
	GeneratedHabitIDs []uint `json:"generated_habit_ids"`
	GeneratedCount    int    `json:"generated_count"`
}

type TimelinePhase struct {
	ID         uint   `json:"id"`
	PhaseKey   string `json:"phase_key"`
	PhaseOrder int    `json:"phase_order"`
}

type TimelineArtifact struct {
	ArtifactKey string         `json:"artifact_key"`
	CollectedAt time.Time      `json:"collected_at"`
	Computed    datatypes.JSON `json:"computed_json"`
}

type TimelineGeneratedItem struct {
	ID                     uint  `json:"id"`
	InterventionTemplateID uint  `json:"intervention_template_id"`
	GeneratedHabitID       *uint `json:"generated_habit_id"`
}

type Timeline struct {
	RunID                  uint                    `json:"run_id"`
	Status                 string                  `json:"status"`
	CurrentPhaseID         *uint                   `json:"current_phase_id"`
	Phases                 []TimelinePhase         `json:"phases"`
	Artifacts              []TimelineArtifact      `json:"artifacts"`
	GeneratedInterventions []TimelineGeneratedItem `json:"generated_interventions"`
}

type ProtocolService interface {
	CreateRun(ctx context.Context, userID uint, templateCode string) (*types.ProtocolRun, error)
	GetRun(ctx context.Context, runID uint) (*types.ProtocolRun, error)
	SubmitArtifact(ctx context.Context, runID uint, artifactKey string, payload []byte, source string) (*types.ArtifactInstance, error)
	GenerateInterventions(ctx context.Context, runID uint) (*GenerateInterventionsResult, error)
	AdvancePhase(ctx context.Context, runID uint) (*PhaseAdvanceResult, error)
	Timeline(ctx context.Context, runID uint) (*Timeline, error)
}

type protocolService struct {
	db               *gorm.DB
	log              *logger.Logger
	runRepo          repos.ProtocolRunRepo
	templateRepo     repos.ProtocolTemplateRepo
	phaseRepo        repos.ProtocolPhaseRepo
	definitionRepo   repos.ArtifactDefinitionRepo
	instanceRepo     repos.ArtifactInstanceRepo
	interventionRepo repos.InterventionTemplateRepo
	generatedRepo    repos.ProtocolGeneratedItemRepo
	programRepo      repos.ProgramRepo
	habitRepo        repos.HabitRepo
	enrollmentRepo   repos.EnrollmentRepo
	ledgerRepo       repos.PointsLedgerRepo
	rewardRepo       repos.RewardConfigRepo
}

func NewProtocolService(
	db *gorm.DB,
	log *logger.Logger,
	runRepo repos.ProtocolRunRepo,
	templateRepo repos.ProtocolTemplateRepo,
	phaseRepo repos.ProtocolPhaseRepo,
	definitionRepo repos.ArtifactDefinitionRepo,
	instanceRepo repos.ArtifactInstanceRepo,
	interventionRepo repos.InterventionTemplateRepo,
	generatedRepo repos.ProtocolGeneratedItemRepo,
	programRepo repos.ProgramRepo,
	habitRepo repos.HabitRepo,
	enrollmentRepo repos.EnrollmentRepo,
	ledgerRepo repos.PointsLedgerRepo,
	rewardRepo repos.RewardConfigRepo,
) ProtocolService {
	return &protocolService{
		db:               db,
		log:              log.With("service", "ProtocolService"),
		runRepo:          runRepo,
		templateRepo:     templateRepo,
		phaseRepo:        phaseRepo,
		definitionRepo:   definitionRepo,
		instanceRepo:     instanceRepo,
		interventionRepo: interventionRepo,
		generatedRepo:    generatedRepo,
		programRepo:      programRepo,
		habitRepo:        habitRepo,
		enrollmentRepo:   enrollmentRepo,
		ledgerRepo:       ledgerRepo,
		rewardRepo:       rewardRepo,
	}
}

func (ps *protocolService) CreateRun(ctx context.Context, userID uint, templateCode string) (*types.ProtocolRun, error) {
	var run *types.ProtocolRun
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		template, err := ps.templateRepo.GetActiveByCode(dbc, templateCode)
		if err != nil {
			return err
		}
		if template == nil {
			return apierr.NotFound("protocol template")
		}

		first, err := ps.phaseRepo.GetFirstByTemplate(dbc, template.ID)
		if err != nil {
			return err
		}

		run = &types.ProtocolRun{
			UserID:             userID,
			ProtocolTemplateID: template.ID,
			Status:             types.RunStatusActive,
			StartedAt:          time.Now().UTC(),
		}
		if first != nil {
			run.CurrentPhaseID = &first.ID
		}
		return ps.runRepo.Create(dbc, run)
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("Protocol run created", "run_id", run.ID, "user_id", userID, "template_code", templateCode)
	return run, nil
}

func (ps *protocolService) GetRun(ctx context.Context, runID uint) (*types.ProtocolRun, error) {
	return ps.runRepo.GetByID(dbctx.New(ctx), runID)
}

func (ps *protocolService) SubmitArtifact(ctx context.Context, runID uint, artifactKey string, payload []byte, source string) (*types.ArtifactInstance, error) {
	var instance *types.ArtifactInstance
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		run, err := ps.runRepo.GetWithTemplate(dbc, runID)
		if err != nil {
			return err
		}

		definition, err := ps.definitionRepo.GetByTemplateAndKey(dbc, run.ProtocolTemplateID, artifactKey)
		if err != nil {
			return err
		}
		if definition == nil {
			return apierr.NotFound("artifact definition")
		}

		computed := datatypes.JSON("{}")
		if scores := ComputeArtifactScores(artifactKey, payload); scores != nil {
			raw, err := json.Marshal(scores)
			if err != nil {
				return err
			}
			computed = datatypes.JSON(raw)
		}

		instance = &types.ArtifactInstance{
			ProtocolRunID:        run.ID,
			ArtifactDefinitionID: definition.ID,
			Payload:              datatypes.JSON(payload),
			Computed:             computed,
			Source:               source,
			CollectedAt:          time.Now().UTC(),
		}
		return ps.instanceRepo.Create(dbc, instance)
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (ps *protocolService) GenerateInterventions(ctx context.Context, runID uint) (*GenerateInterventionsResult, error) {
	var habitIDs []uint
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		run, err := ps.runRepo.GetWithTemplate(dbc, runID)
		if err != nil {
			return err
		}
		habitIDs, err = ps.generateHabits(dbc, run)
		return err
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("Interventions generated", "run_id", runID, "count", len(habitIDs))
	return &GenerateInterventionsResult{GeneratedHabitIDs: habitIDs, GeneratedCount: len(habitIDs)}, nil
}

// ensureProgram resolves the program that generated habits attach to. The
// template's default program wins; otherwise a per-patient program is
// reused by name or created, and the run's user is enrolled in it.
func (ps *protocolService) ensureProgram(dbc dbctx.Context, run *types.ProtocolRun) (*types.Program, error) {
	template := run.ProtocolTemplate
	if template.DefaultProgramID != nil {
		program, err := ps.programRepo.GetByID(dbc, *template.DefaultProgramID)
		if err == nil && program != nil {
			return program, nil
		}
		if err != nil && apierr.From(err).Status != 404 {
			return nil, err
		}
	}

	name := fmt.Sprintf("Protocolo %s - Paciente %d", template.Name, run.UserID)
	program, err := ps.programRepo.GetLatestByName(dbc, name)
	if err != nil {
		return nil, err
	}
	if program == nil {
		program = &types.Program{
			Name:        name,
			Description: fmt.Sprintf("Programa auto-gerado para run %d", run.ID),
			IsActive:    true,
		}
		if err := ps.programRepo.Create(dbc, program); err != nil {
			return nil, err
		}
	}

	enrolled, err := ps.enrollmentRepo.Exists(dbc, run.UserID, program.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		enrollment := &types.Enrollment{UserID: run.UserID, ProgramID: program.ID, IsActive: true}
		if err := ps.enrollmentRepo.Create(dbc, enrollment); err != nil {
			return nil, err
		}
	}
	return program, nil
}

// ruleMatches evaluates an intervention's activation rules against the
// latest computed triage document. An empty rule set always matches.
func ruleMatches(rules, context map[string]interface{}) bool {
	if len(rules) == 0 {
		return true
	}
	target, _ := rules["top_function"].(string)
	if target == "" {
		return true
	}
	actual, _ := context["top_function"].(string)
	return target == actual
}

func decodeJSONMap(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// generateHabits materializes habit-type intervention templates into habits
// for the run. Re-running is idempotent: previously generated items are
// reported, not duplicated.
func (ps *protocolService) generateHabits(dbc dbctx.Context, run *types.ProtocolRun) ([]uint, error) {
	var context map[string]interface{}
	latest, err := ps.instanceRepo.GetLatestByRunAndKey(dbc, run.ID, types.ArtifactKeySevenFunctions)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		context = decodeJSONMap(latest.Computed)
	}

	program, err := ps.ensureProgram(dbc, run)
	if err != nil {
		return nil, err
	}

	templates, err := ps.interventionRepo.ListByTemplate(dbc, run.ProtocolTemplateID)
	if err != nil {
		return nil, err
	}

	habitIDs := []uint{}
	for _, template := range templates {
		if template.Type != types.InterventionTypeHabit {
			continue
		}
		if !ruleMatches(decodeJSONMap(template.ActivationRules), context) {
			continue
		}

		existing, err := ps.generatedRepo.GetByRunAndIntervention(dbc, run.ID, template.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.GeneratedHabitID != nil {
				habitIDs = append(habitIDs, *existing.GeneratedHabitID)
			}
			continue
		}

		blueprint := decodeJSONMap(template.HabitBlueprint)
		habit := &types.Habit{
			ProgramID:           program.ID,
			Name:                template.Name,
			Description:         template.Description,
			PointsPerCompletion: blueprintPoints(blueprint),
			SourceType:          types.HabitSourceProtocol,
			SourceRefID:         &run.ID,
			TargetMetricKey:     blueprintMetricKey(blueprint),
			IsActive:            true,
		}
		if err := ps.habitRepo.Create(dbc, habit); err != nil {
			return nil, err
		}

		item := &types.ProtocolGeneratedItem{
			ProtocolRunID:          run.ID,
			InterventionTemplateID: template.ID,
			GeneratedHabitID:       &habit.ID,
		}
		if err := ps.generatedRepo.Create(dbc, item); err != nil {
			return nil, err
		}
		habitIDs = append(habitIDs, habit.ID)
	}
	return habitIDs, nil
}

func blueprintPoints(blueprint map[string]interface{}) int {
	if v, ok := blueprint["points_per_completion"].(float64); ok {
		return int(v)
	}
	return 10
}

func blueprintMetricKey(blueprint map[string]interface{}) *string {
	if v, ok := blueprint["target_metric_key"].(string); ok && v != "" {
		return &v
	}
	return nil
}

// awardMilestone credits milestone points once per run per milestone key.
// The lookup guard keeps behavior stable for pre-existing rows without a
// dedupe key; the key's unique index closes the concurrent window.
func (ps *protocolService) awardMilestone(dbc dbctx.Context, run *types.ProtocolRun, milestoneKey string) error {
	description := fmt.Sprintf("Milestone de protocolo: %s", milestoneKey)
	exists, err := ps.ledgerRepo.ExistsAward(dbc, run.UserID, types.EventProtocolMilestone, description, &run.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	points, err := ps.rewardRepo.GetValue(dbc, fmt.Sprintf("protocol_milestone_%s_points", milestoneKey))
	if err != nil {
		return err
	}
	if points == nil {
		value, ok := milestoneDefaultPoints[milestoneKey]
		if !ok {
			value = milestoneFallbackPoints
		}
		points = &value
	}

	dedupeKey := fmt.Sprintf("protocol_milestone:%d:%s", run.ID, milestoneKey)
	entry := &types.PointsLedger{
		UserID:           run.UserID,
		ProgramID:        run.ProtocolTemplate.DefaultProgramID,
		Points:           *points,
		EventType:        types.EventProtocolMilestone,
		EventReferenceID: &run.ID,
		Description:      description,
		DedupeKey:        &dedupeKey,
	}
	inserted, err := ps.ledgerRepo.CreateIdempotent(dbc, entry)
	if err != nil {
		return err
	}
	if inserted {
		ps.log.Info("Protocol milestone awarded", "run_id", run.ID, "milestone", milestoneKey, "points", *points)
	}
	return nil
}

func (ps *protocolService) AdvancePhase(ctx context.Context, runID uint) (*PhaseAdvanceResult, error) {
	var result PhaseAdvanceResult
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		run, err := ps.runRepo.GetWithTemplate(dbc, runID)
		if err != nil {
			return err
		}

		advanced, err := ps.advance(dbc, run)
		if err != nil {
			return err
		}
		result.Advanced = advanced

		refreshed, err := ps.runRepo.GetByID(dbc, run.ID)
		if err != nil {
			return err
		}
		if refreshed.CurrentPhase != nil {
			key := refreshed.CurrentPhase.PhaseKey
			result.CurrentPhase = &key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// advance applies the phase criteria and moves the run one step at most.
// Milestones are awarded inside the same transaction as the move, so a
// failed transition never leaves a stray award behind.
func (ps *protocolService) advance(dbc dbctx.Context, run *types.ProtocolRun) (bool, error) {
	phases, err := ps.phaseRepo.ListByTemplateOrdered(dbc, run.ProtocolTemplateID)
	if err != nil {
		return false, err
	}
	if len(phases) == 0 {
		return false, nil
	}

	if run.CurrentPhaseID == nil {
		err := ps.runRepo.UpdateFields(dbc, run.ID, map[string]interface{}{"current_phase_id": phases[0].ID})
		return err == nil, err
	}

	currentIndex := -1
	for i, phase := range phases {
		if phase.ID == *run.CurrentPhaseID {
			currentIndex = i
			break
		}
	}
	if currentIndex < 0 || currentIndex >= len(phases)-1 {
		return false, nil
	}
	current := phases[currentIndex]
	next := phases[currentIndex+1]

	instances, err := ps.instanceRepo.ListByRun(dbc, run.ID)
	if err != nil {
		return false, err
	}
	artifactKeys := map[string]int{}
	for _, instance := range instances {
		artifactKeys[instance.ArtifactDefinition.ArtifactKey]++
	}

	criteriaMet := false
	switch current.PhaseKey {
	case types.PhaseTriage:
		criteriaMet = artifactKeys[types.ArtifactKeySevenFunctions] > 0
		if criteriaMet {
			if err := ps.awardMilestone(dbc, run, types.PhaseTriage); err != nil {
				return false, err
			}
		}
	case types.PhaseBaseline:
		criteriaMet = artifactKeys[types.ArtifactKeyBaselinePanel] > 0
		if criteriaMet {
			if err := ps.awardMilestone(dbc, run, types.PhaseBaseline); err != nil {
				return false, err
			}
		}
	case types.PhaseIntervene:
		generatedCount, err := ps.generatedRepo.CountByRun(dbc, run.ID)
		if err != nil {
			return false, err
		}
		criteriaMet = generatedCount > 0
	case types.PhaseRetest:
		criteriaMet = artifactKeys[types.ArtifactKeyBaselinePanel] >= 2
		if criteriaMet {
			if err := ps.awardMilestone(dbc, run, types.PhaseRetest); err != nil {
				return false, err
			}
		}
	}
	if !criteriaMet {
		return false, nil
	}

	updates := map[string]interface{}{"current_phase_id": next.ID}
	if next.PhaseKey == types.PhaseRetest {
		updates["status"] = types.RunStatusRetest
	}
	// A run only completes by advancing out of retest into the final phase.
	if next.PhaseKey == phases[len(phases)-1].PhaseKey && current.PhaseKey == types.PhaseRetest {
		updates["status"] = types.RunStatusCompleted
		updates["completed_at"] = time.Now().UTC()
	}
	if err := ps.runRepo.UpdateFields(dbc, run.ID, updates); err != nil {
		return false, err
	}
	ps.log.Info("Protocol phase advanced", "run_id", run.ID, "from", current.PhaseKey, "to", next.PhaseKey)
	return true, nil
}

func (ps *protocolService) Timeline(ctx context.Context, runID uint) (*Timeline, error) {
	dbc := dbctx.New(ctx)
	run, err := ps.runRepo.GetByID(dbc, runID)
	if err != nil {
		return nil, err
	}

	phases, err := ps.phaseRepo.ListByTemplateOrdered(dbc, run.ProtocolTemplateID)
	if err != nil {
		return nil, err
	}
	instances, err := ps.instanceRepo.ListByRun(dbc, run.ID)
	if err != nil {
		return nil, err
	}
	items, err := ps.generatedRepo.ListByRun(dbc, run.ID)
	if err != nil {
		return nil, err
	}

	timeline := &Timeline{
		RunID:                  run.ID,
		Status:                 run.Status,
		CurrentPhaseID:         run.CurrentPhaseID,
		Phases:                 []TimelinePhase{},
		Artifacts:              []TimelineArtifact{},
		GeneratedInterventions: []TimelineGeneratedItem{},
	}
	for _, phase := range phases {
		timeline.Phases = append(timeline.Phases, TimelinePhase{ID: phase.ID, PhaseKey: phase.PhaseKey, PhaseOrder: phase.PhaseOrder})
	}
	for _, instance := range instances {
		timeline.Artifacts = append(timeline.Artifacts, TimelineArtifact{
			ArtifactKey: instance.ArtifactDefinition.ArtifactKey,
			CollectedAt: instance.CollectedAt,
			Computed:    instance.Computed,
		})
	}
	for _, item := range items {
		timeline.GeneratedInterventions = append(timeline.GeneratedInterventions, TimelineGeneratedItem{
			ID:                     item.ID,
			InterventionTemplateID: item.InterventionTemplateID,
			GeneratedHabitID:       item.GeneratedHabitID,
		})
	}
	return timeline, nil
}
