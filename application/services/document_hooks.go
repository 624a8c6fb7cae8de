package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"appbuilder/application/ports"
	"appbuilder/pkg/extensions"
)

// Hook names registered by RegisterDocumentHooks
const (
	HookPersist = "persist_snapshot"
	HookPublish = "publish_events"
	HookMetrics = "record_metrics"
)

// RegisterDocumentHooks wires persistence, event publishing and metrics onto
// the document_changed hook point, in that order. publisher and metrics may
// be nil.
func RegisterDocumentHooks(
	hooks *extensions.HookManager,
	documents ports.DocumentRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) {
	hooks.Register(extensions.HookDocumentChanged, HookPersist, func(ctx context.Context, data interface{}) error {
		change, err := asChange(data)
		if err != nil {
			return err
		}
		return documents.Save(ctx, change.ProjectID, change.Snapshot)
	})

	if publisher != nil {
		hooks.Register(extensions.HookDocumentChanged, HookPublish, func(ctx context.Context, data interface{}) error {
			change, err := asChange(data)
			if err != nil {
				return err
			}
			if err := publisher.PublishBatch(ctx, change.Events); err != nil {
				// best effort once the snapshot is stored
				logger.Warn("failed to publish document events",
					zap.String("project_id", change.ProjectID),
					zap.Int("events", len(change.Events)),
					zap.Error(err))
			}
			return nil
		})
	}

	if metrics != nil {
		hooks.Register(extensions.HookDocumentChanged, HookMetrics, func(ctx context.Context, data interface{}) error {
			change, err := asChange(data)
			if err != nil {
				return err
			}
			for _, ev := range change.Events {
				metrics.IncrementCounter("document_events", map[string]string{"type": ev.GetEventType()})
			}
			tags := map[string]string{"project_id": change.ProjectID}
			metrics.RecordValue("document_elements", float64(len(change.Snapshot.Elements)), tags)
			metrics.RecordValue("document_nodes", float64(len(change.Snapshot.Nodes)), tags)
			metrics.RecordValue("document_files", float64(len(change.Snapshot.Files)), tags)
			return nil
		})

		hooks.Register(extensions.HookSessionOpened, HookMetrics, func(ctx context.Context, data interface{}) error {
			metrics.IncrementCounter("sessions_opened", nil)
			return nil
		})
	}
}

func asChange(data interface{}) (DocumentChange, error) {
	change, ok := data.(DocumentChange)
	if !ok {
		return DocumentChange{}, fmt.Errorf("unexpected hook payload %T", data)
	}
	return change, nil
}
