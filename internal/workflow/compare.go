// Package workflow strings the loaders, the matcher, and the sinks together
// into the runs the CLI and the servers execute.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mangashelf/internal/compare"
	"mangashelf/internal/history"
	"mangashelf/internal/library"
	"mangashelf/internal/logger"
	"mangashelf/internal/metrics"
	"mangashelf/internal/reference"
	"mangashelf/internal/sync"
	"mangashelf/pkg/models"
)

// Publisher receives run events. *sync.Hub satisfies it.
type Publisher interface {
	BroadcastJSON(v any)
}

// Comparer runs comparisons. History and Events are optional.
type Comparer struct {
	History       *history.Repo
	Events        Publisher
	LogCollisions bool
	Now           func() time.Time
}

// CompareInput names the two source files of a file based run.
type CompareInput struct {
	LibraryPath   string
	ReferencePath string
	Exclusive     bool
	Source        string // metrics label: cli, api, grpc
}

// RecordsInput is a run over catalogs that are already in memory.
type RecordsInput struct {
	Library         []models.TitleRecord
	Reference       []models.TitleRecord
	LibrarySource   string
	ReferenceSource string
	Exclusive       bool
	Source          string
}

// CompareOutput is the result of one run.
type CompareOutput struct {
	Run        models.Run
	Collisions []compare.Collision
}

// Compare loads both catalogs and compares them. A missing source aborts the
// run before any matching happens.
//
// When the run was computed but could not be stored in history, the output is
// returned together with an error wrapping models.ErrPersistence.
func (c *Comparer) Compare(ctx context.Context, in CompareInput) (*CompareOutput, error) {
	lib, err := library.Load(in.LibraryPath)
	if err != nil {
		metrics.CompareRunsTotal.WithLabelValues(sourceLabel(in.Source), "error").Inc()
		return nil, fmt.Errorf("load library: %w", err)
	}
	ref, err := reference.Load(in.ReferencePath)
	if err != nil {
		metrics.CompareRunsTotal.WithLabelValues(sourceLabel(in.Source), "error").Inc()
		return nil, fmt.Errorf("load reference: %w", err)
	}

	return c.CompareRecords(ctx, RecordsInput{
		Library:         lib,
		Reference:       ref,
		LibrarySource:   in.LibraryPath,
		ReferenceSource: in.ReferencePath,
		Exclusive:       in.Exclusive,
		Source:          in.Source,
	})
}

// CompareRecords matches in-memory catalogs and records the run.
func (c *Comparer) CompareRecords(ctx context.Context, in RecordsInput) (*CompareOutput, error) {
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	defer logger.Track(ctx, "[compare] run")()

	log := logger.For(ctx)
	log.WithFields(logrus.Fields{
		"library":   len(in.Library),
		"reference": len(in.Reference),
		"exclusive": in.Exclusive,
	}).Info("[compare] matching catalogs")

	res := compare.Match(in.Library, in.Reference, compare.WithExclusive(in.Exclusive))
	views := compare.Views(res.Matches)

	if c.LogCollisions {
		for _, col := range res.Collisions {
			log.WithFields(logrus.Fields{
				"library_title": col.LibraryTitle,
				"selected":      col.Selected,
				"candidates":    col.Candidates,
				"shared_with":   col.SharedWith,
			}).Warn("[compare] ambiguous title match")
		}
	}

	out := &CompareOutput{
		Run: models.Run{
			ID:              runID,
			StartedAt:       c.now(),
			LibrarySource:   in.LibrarySource,
			ReferenceSource: in.ReferenceSource,
			LibraryCount:    len(in.Library),
			ReferenceCount:  len(in.Reference),
			MatchCount:      len(views),
			Matches:         views,
		},
		Collisions: res.Collisions,
	}

	source := sourceLabel(in.Source)
	metrics.MatchesPerRun.Observe(float64(len(views)))
	metrics.CollisionsTotal.Add(float64(len(res.Collisions)))
	log.WithField("matches", len(views)).Info("[compare] run finished")

	if c.History != nil {
		if err := c.History.Save(ctx, out.Run); err != nil {
			metrics.CompareRunsTotal.WithLabelValues(source, "error").Inc()
			return out, fmt.Errorf("save run: %w: %w", models.ErrPersistence, err)
		}
	}
	metrics.CompareRunsTotal.WithLabelValues(source, "ok").Inc()

	if c.Events != nil {
		c.Events.BroadcastJSON(sync.CompareEvent{
			Type:            sync.EventCompareCompleted,
			RunID:           runID,
			LibrarySource:   in.LibrarySource,
			ReferenceSource: in.ReferenceSource,
			MatchCount:      len(views),
			Collisions:      len(res.Collisions),
			At:              out.Run.StartedAt,
		})
	}
	return out, nil
}

func (c *Comparer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func sourceLabel(s string) string {
	if s == "" {
		return "cli"
	}
	return s
}
