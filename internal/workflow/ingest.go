package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mangashelf/internal/archive"
	"mangashelf/internal/ingest"
	"mangashelf/internal/library"
	"mangashelf/internal/logger"
	"mangashelf/internal/metrics"
	"mangashelf/internal/sync"
	"mangashelf/pkg/models"
)

// Ingester appends the entries of an export file to the library and archives
// the export afterwards.
type Ingester struct {
	Parser   *ingest.Parser
	Archiver *archive.Archiver
	Events   Publisher
	Now      func() time.Time

	// OnEntry is called after each entry is appended.
	OnEntry func(n int, rec models.TitleRecord)
}

type IngestInput struct {
	ExportPath  string
	LibraryPath string
}

type IngestOutput struct {
	RunID    string
	Records  []models.TitleRecord
	Archived []string
}

// Ingest parses the export, appends its entries as one batch, then archives
// the export. Nothing is archived when the append failed or when the export
// held no entries. A malformed export appends nothing.
func (in *Ingester) Ingest(ctx context.Context, req IngestInput) (*IngestOutput, error) {
	out := &IngestOutput{RunID: uuid.NewString()}
	ctx = logger.ContextWithRunID(ctx, out.RunID)
	log := logger.For(ctx).WithField("export", req.ExportPath)

	records, err := in.Parser.ParseFile(req.ExportPath)
	if err != nil {
		log.WithError(err).Error("[ingest] export rejected")
		return out, fmt.Errorf("parse export: %w", err)
	}
	if len(records) == 0 {
		log.Info("[ingest] nothing to ingest")
		return out, nil
	}

	if err := library.Append(req.LibraryPath, records, library.AppendOptions{
		At:      in.now(),
		OnEntry: in.OnEntry,
	}); err != nil {
		return out, fmt.Errorf("append to library: %w", err)
	}
	out.Records = records
	metrics.IngestedEntriesTotal.Add(float64(len(records)))
	log.WithFields(logrus.Fields{
		"entries": len(records),
		"library": req.LibraryPath,
	}).Info("[ingest] entries appended")

	if in.Archiver != nil {
		archived, err := in.Archiver.Archive(req.ExportPath)
		out.Archived = archived
		if err != nil {
			return out, fmt.Errorf("archive export: %w", err)
		}
		log.WithField("files", len(archived)).Info("[ingest] export archived")
	}

	if in.Events != nil {
		in.Events.BroadcastJSON(sync.IngestEvent{
			Type:     sync.EventIngestCompleted,
			RunID:    out.RunID,
			Library:  req.LibraryPath,
			Entries:  len(records),
			Archived: out.Archived,
			At:       in.now(),
		})
	}
	return out, nil
}

func (in *Ingester) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}
