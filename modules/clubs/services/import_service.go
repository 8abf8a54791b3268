package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/domain/events"
	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/extraction"
	"github.com/iota-uz/clubs/pkg/composables"
	"github.com/iota-uz/clubs/pkg/eventbus"
)

const tracerName = "github.com/iota-uz/clubs/modules/clubs/services"

type ImportOptions struct {
	Threshold      int
	ExcludedGrades []string
}

type ImportRequest struct {
	ClubID   uuid.UUID
	Document extraction.Document
	DryRun   bool
}

// ImportEntry is one matched roster line.
type ImportEntry struct {
	StudentID     uuid.UUID
	Name          string
	ExtractedName string
	MatchScore    int
}

type ImportResult struct {
	ClubID            uuid.UUID
	DryRun            bool
	Summary           reconcile.Summary
	Added             []ImportEntry
	Conflicts         []ImportEntry
	CategoryConflicts []ImportEntry
	Duplicates        []ImportEntry
	Unmatched         []string
}

type ImportService struct {
	students    student.Repository
	clubs       club.Repository
	memberships membership.Repository
	extractor   extraction.Extractor
	committer   *CommitCoordinator
	publisher   eventbus.EventBus
	matcher     *reconcile.Matcher
	eligible    student.EligibilityFunc
	logger      *logrus.Logger
}

func NewImportService(
	students student.Repository,
	clubs club.Repository,
	memberships membership.Repository,
	extractor extraction.Extractor,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
	opts ImportOptions,
) *ImportService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ImportService{
		students:    students,
		clubs:       clubs,
		memberships: memberships,
		extractor:   extractor,
		committer:   NewCommitCoordinator(memberships, logger),
		publisher:   publisher,
		matcher:     reconcile.NewMatcher(opts.Threshold),
		eligible:    student.ExcludeGrades(opts.ExcludedGrades...),
		logger:      logger,
	}
}

// Import reconciles the names in req.Document against the student registry and enrols the
// matches in the target club. Per-entry problems land in the result; only failures that
// prevent classifying every entry are returned as errors, and those happen before any write.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "roster.import", trace.WithAttributes(
		attribute.String("club.id", req.ClubID.String()),
		attribute.Bool("import.dry_run", req.DryRun),
	))
	defer span.End()
	start := time.Now()

	result, err := s.run(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	importDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("import.extracted", result.Summary.TotalExtracted),
		attribute.Int("import.matched", result.Summary.TotalMatched),
		attribute.Int("import.added", result.Summary.SuccessfullyAdded),
	)
	composables.TryUseLogger(ctx, s.logger).WithFields(logrus.Fields{
		"club_id":            req.ClubID.String(),
		"dry_run":            req.DryRun,
		"total_extracted":    result.Summary.TotalExtracted,
		"total_matched":      result.Summary.TotalMatched,
		"successfully_added": result.Summary.SuccessfullyAdded,
		"unmatched":          result.Summary.Unmatched,
	}).Info("roster import finished")

	if s.publisher != nil {
		s.publisher.Publish(events.NewImportCompletedEvent(req.ClubID, result.Summary, req.DryRun))
	}
	return result, nil
}

func (s *ImportService) run(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.ClubID == uuid.Nil {
		return nil, ErrNoClub
	}
	if req.Document.Path == "" {
		return nil, ErrNoFile
	}

	target, err := s.clubs.GetByID(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("load club: %w", err)
	}

	names, err := s.extractor.Extract(ctx, req.Document)
	if err != nil {
		if errors.Is(err, extraction.ErrUnsupportedType) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedType, err)
		}
		if errors.Is(err, extraction.ErrUnreadable) {
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	if len(names) == 0 {
		return nil, ErrNoNames
	}

	records, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load student registry: %w", err)
	}
	snap := reconcile.NewSnapshot(student.NewRegistry(records), s.eligible)

	result := &ImportResult{ClubID: target.ID(), DryRun: req.DryRun}
	result.Summary.TotalExtracted = len(names)
	matches := s.resolve(names, snap, result)

	active, err := s.activeMemberships(ctx, matches)
	if err != nil {
		return nil, err
	}

	goal := reconcile.Target{ClubID: target.ID(), Category: target.Category()}
	allowed := make([]reconcile.MatchResult, 0, len(matches))
	for _, m := range matches {
		switch reconcile.CheckConstraint(m.Student.ID(), goal, active) {
		case reconcile.AlreadyMember:
			result.Conflicts = append(result.Conflicts, toEntry(m))
		case reconcile.CategoryConflict:
			result.CategoryConflicts = append(result.CategoryConflicts, toEntry(m))
		case reconcile.Allowed:
			allowed = append(allowed, m)
		}
	}
	result.Summary.AvailableToAdd = len(allowed)

	if req.DryRun {
		for _, m := range allowed {
			result.Added = append(result.Added, toEntry(m))
		}
	} else {
		s.commit(ctx, target.ID(), allowed, result)
	}

	result.Summary.AlreadyMembers = len(result.Conflicts)
	result.Summary.CategoryConflicts = len(result.CategoryConflicts)
	result.Summary.Unmatched = len(result.Unmatched)
	result.Summary.Duplicates = len(result.Duplicates)
	if !req.DryRun {
		result.Summary.SuccessfullyAdded = len(result.Added)
	}
	return result, nil
}

// resolve matches every name against snap. Names that resolve to a student already claimed by
// an earlier name collapse into one entry: the higher score survives, ties keep the first.
func (s *ImportService) resolve(names []reconcile.RawName, snap *reconcile.Snapshot, result *ImportResult) []reconcile.MatchResult {
	matches := make([]reconcile.MatchResult, 0, len(names))
	byStudent := make(map[uuid.UUID]int, len(names))

	for _, name := range names {
		m, ok := s.matcher.Resolve(name, snap)
		if !ok {
			result.Unmatched = append(result.Unmatched, name.Display())
			continue
		}
		result.Summary.TotalMatched++

		idx, seen := byStudent[m.Student.ID()]
		if !seen {
			byStudent[m.Student.ID()] = len(matches)
			matches = append(matches, m)
			continue
		}
		if m.Score > matches[idx].Score {
			result.Duplicates = append(result.Duplicates, toEntry(matches[idx]))
			matches[idx] = m
			continue
		}
		result.Duplicates = append(result.Duplicates, toEntry(m))
	}
	return matches
}

func (s *ImportService) activeMemberships(ctx context.Context, matches []reconcile.MatchResult) ([]membership.ActiveMembership, error) {
	if len(matches) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Student.ID())
	}
	active, err := s.memberships.ListActiveForStudents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load active memberships: %w", err)
	}
	return active, nil
}

func (s *ImportService) commit(ctx context.Context, clubID uuid.UUID, allowed []reconcile.MatchResult, result *ImportResult) {
	if len(allowed) == 0 {
		return
	}
	intents := make([]membership.Intent, 0, len(allowed))
	for _, m := range allowed {
		intents = append(intents, membership.Intent{StudentID: m.Student.ID(), ClubID: clubID})
	}

	for i, res := range s.committer.Commit(ctx, intents) {
		entry := toEntry(allowed[i])
		switch res.Outcome {
		case Committed:
			result.Added = append(result.Added, entry)
		case CategoryConflictAtCommit:
			result.CategoryConflicts = append(result.CategoryConflicts, entry)
		case DuplicateAtCommit:
			result.Conflicts = append(result.Conflicts, entry)
		case OtherFailure:
			// logged by the coordinator, the entry is dropped
		}
	}
}

func toEntry(m reconcile.MatchResult) ImportEntry {
	return ImportEntry{
		StudentID:     m.Student.ID(),
		Name:          m.Student.FullName(),
		ExtractedName: m.ExtractedName.String(),
		MatchScore:    m.Score,
	}
}
