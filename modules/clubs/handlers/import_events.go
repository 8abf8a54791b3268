package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/clubs/modules/clubs/domain/events"
	"github.com/iota-uz/clubs/pkg/application"
)

var (
	importRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clubs",
		Subsystem: "import",
		Name:      "runs_total",
		Help:      "Total number of roster import runs broken down by mode.",
	}, []string{"mode"})

	importEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clubs",
		Subsystem: "import",
		Name:      "entries_total",
		Help:      "Total number of roster entries broken down by reconciliation outcome.",
	}, []string{"outcome"})

	membershipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clubs",
		Subsystem: "membership",
		Name:      "changes_total",
		Help:      "Total number of manual membership changes broken down by kind.",
	}, []string{"change"})
)

type ImportEventsHandler struct {
	logger *logrus.Logger
}

func RegisterImportEventHandlers(app application.Application) {
	handler := &ImportEventsHandler{logger: app.Logger()}
	app.EventPublisher().Subscribe(handler.onImportCompleted)
	app.EventPublisher().Subscribe(handler.onMembershipAdded)
	app.EventPublisher().Subscribe(handler.onMembershipRemoved)
}

func importMode(dryRun bool) string {
	if dryRun {
		return "dry_run"
	}
	return "commit"
}

func (h *ImportEventsHandler) onImportCompleted(ev *events.ImportCompletedEvent) {
	if ev == nil {
		return
	}
	s := ev.Summary
	importRuns.WithLabelValues(importMode(ev.DryRun)).Inc()
	importEntries.WithLabelValues("added").Add(float64(s.SuccessfullyAdded))
	importEntries.WithLabelValues("already_member").Add(float64(s.AlreadyMembers))
	importEntries.WithLabelValues("category_conflict").Add(float64(s.CategoryConflicts))
	importEntries.WithLabelValues("unmatched").Add(float64(s.Unmatched))
	importEntries.WithLabelValues("duplicate").Add(float64(s.Duplicates))

	if h.logger == nil {
		return
	}
	h.logger.WithFields(logrus.Fields{
		"club_id":            ev.ClubID.String(),
		"mode":               importMode(ev.DryRun),
		"total_extracted":    s.TotalExtracted,
		"total_matched":      s.TotalMatched,
		"available_to_add":   s.AvailableToAdd,
		"successfully_added": s.SuccessfullyAdded,
		"already_members":    s.AlreadyMembers,
		"category_conflicts": s.CategoryConflicts,
		"unmatched":          s.Unmatched,
		"duplicates":         s.Duplicates,
		"occurred_at":        ev.OccurredAt,
	}).Info("clubs: roster import completed")
}

func (h *ImportEventsHandler) onMembershipAdded(ev *events.MembershipAddedEvent) {
	if ev == nil {
		return
	}
	membershipChanges.WithLabelValues("added").Inc()
	if h.logger != nil {
		h.logger.WithFields(logrus.Fields{
			"club_id":    ev.Result.ClubID().String(),
			"student_id": ev.Result.StudentID().String(),
		}).Info("clubs: membership added")
	}
}

func (h *ImportEventsHandler) onMembershipRemoved(ev *events.MembershipRemovedEvent) {
	if ev == nil {
		return
	}
	membershipChanges.WithLabelValues("removed").Inc()
	if h.logger != nil {
		h.logger.WithFields(logrus.Fields{
			"club_id":    ev.Result.ClubID().String(),
			"student_id": ev.Result.StudentID().String(),
		}).Info("clubs: membership removed")
	}
}
