package daemon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/faisal004/pulseboard/internal/events"
	"github.com/faisal004/pulseboard/internal/models"
	"github.com/faisal004/pulseboard/internal/services/kanban"
	"github.com/faisal004/pulseboard/internal/settings"
	"github.com/faisal004/pulseboard/internal/stats"
	"github.com/faisal004/pulseboard/internal/updater"
)

// Dispatcher routes bridge requests to the daemon's collaborators. Sampler
// and notifier may be nil; their methods then report unsupported.
type Dispatcher struct {
	Kanban   kanban.Service
	Settings *settings.Store
	Sampler  stats.Sampler
	Notifier updater.Notifier
}

// Handle implements the server's Handler contract
func (d *Dispatcher) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case events.MethodKanbanCreate:
		var p events.CreateTaskParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		task, err := d.Kanban.CreateTask(ctx, kanban.CreateTaskRequest{
			Title:       p.Title,
			Description: p.Description,
			Status:      p.Status,
			DueDate:     p.DueDate,
		})
		if err != nil {
			return nil, err
		}
		return task, nil

	case events.MethodKanbanFindAll:
		tasks, err := d.Kanban.FindAllTasks(ctx)
		if err != nil {
			return nil, err
		}
		return tasks, nil

	case events.MethodKanbanUpdate:
		var task models.Task
		if err := unmarshalParams(params, &task); err != nil {
			return nil, err
		}
		updated, err := d.Kanban.UpdateTask(ctx, &task)
		if err != nil {
			return nil, err
		}
		return updated, nil

	case events.MethodKanbanUpdateStatus:
		var p events.UpdateStatusParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return nil, d.Kanban.UpdateTaskStatus(ctx, p.ID, p.Status)

	case events.MethodKanbanDelete:
		var p events.IDParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return nil, d.Kanban.DeleteTask(ctx, p.ID)

	case events.MethodKanbanCreateSubtask:
		var p events.CreateSubtaskParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		subtask, err := d.Kanban.CreateSubtask(ctx, kanban.CreateSubtaskRequest{
			TaskID: p.TaskID,
			Title:  p.Title,
		})
		if err != nil {
			return nil, err
		}
		return subtask, nil

	case events.MethodKanbanToggleSubtask:
		var p events.ToggleSubtaskParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return nil, d.Kanban.ToggleSubtask(ctx, p.ID, p.Completed)

	case events.MethodKanbanDeleteSubtask:
		var p events.IDParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return nil, d.Kanban.DeleteSubtask(ctx, p.ID)

	case events.MethodSettingsGet:
		return d.Settings.Get(), nil

	case events.MethodSettingsUpdate:
		var patch settings.Patch
		if err := unmarshalParams(params, &patch); err != nil {
			return nil, err
		}
		updated, err := d.Settings.Update(patch)
		if err != nil {
			return nil, err
		}
		return updated, nil

	case events.MethodStatsGetStatic:
		if d.Sampler == nil {
			return nil, fmt.Errorf("no resource sampler configured")
		}
		return d.Sampler.Static(), nil

	case events.MethodUpdateCheck:
		if d.Notifier == nil {
			return nil, fmt.Errorf("no updater configured")
		}
		d.Notifier.Check()
		return nil, nil

	case events.MethodUpdateStartDownload:
		if d.Notifier == nil {
			return nil, fmt.Errorf("no updater configured")
		}
		d.Notifier.StartDownload()
		return nil, nil

	case events.MethodUpdateInstall:
		if d.Notifier == nil {
			return nil, fmt.Errorf("no updater configured")
		}
		d.Notifier.Install()
		return nil, nil
	}

	return nil, fmt.Errorf("unknown method %q", method)
}

func unmarshalParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return fmt.Errorf("missing params")
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("bad params: %w", err)
	}
	return nil
}

// PublishNotification translates an updater lifecycle callback into a bridge
// event on the given publisher.
func PublishNotification(pub events.EventPublisher, n updater.Notification) error {
	event := events.Event{Type: events.EventType(n.State)}

	switch n.State {
	case updater.StateDownloading:
		if n.Progress != nil {
			payload, err := json.Marshal(events.ProgressInfo{
				Percent:        n.Progress.Percent,
				BytesPerSecond: n.Progress.BytesPerSecond,
				Transferred:    n.Progress.Transferred,
				Total:          n.Progress.Total,
			})
			if err != nil {
				return err
			}
			event.Payload = payload
		}
	case updater.StateError:
		payload, err := json.Marshal(n.Err)
		if err != nil {
			return err
		}
		event.Payload = payload
	}

	return pub.SendEvent(event)
}

// PublishSample translates a resource sample into a bridge event
func PublishSample(pub events.EventPublisher, sample stats.Sample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	return pub.SendEvent(events.Event{Type: events.EventStatsSample, Payload: payload})
}
