package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/todo/pkg/auth"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property linking an event to a task.
const TaskIDProperty = "todo_id"

// CalendarClient talks to one Google calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
}

// NewClient authenticates with the credentials in configDir and resolves
// calendarName to its id.
func NewClient(ctx context.Context, configDir, calendarName string) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx, configDir)
	if err != nil {
		return nil, err
	}

	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return NewCalendarClient(srv, item.Id), nil
		}
	}
	return nil, fmt.Errorf("calendar '%s' not found", calendarName)
}

func NewCalendarClient(srv *calendar.Service, calendarID string) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID}
}

func (c *CalendarClient) Get(ctx context.Context, eventID string) (*calendar.Event, error) {
	return c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
}

// FindByTaskID looks the event up by its extended property. It returns nil
// when there is none.
func (c *CalendarClient) FindByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (c *CalendarClient) Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
}

func (c *CalendarClient) Patch(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) Delete(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}
