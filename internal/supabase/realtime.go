package supabase

import (
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"
)

// RealtimeClient publishes workflow events by inserting rows into
// workflow_events. Clients subscribe to that table through Supabase Realtime,
// filtered on user_id.
type RealtimeClient struct {
	client *supabase.Client
	table  string
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
		table:  "workflow_events",
	}
}

func (r *RealtimeClient) PublishEvent(channel, event string, payload map[string]interface{}) error {
	row := eventRow(channel, event, payload, time.Now().UTC())
	if _, _, err := r.client.From(r.table).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}

func (r *RealtimeClient) PublishUserEvent(userID, event string, payload map[string]interface{}) error {
	return r.PublishEvent(UserChannel(userID), event, withUser(userID, payload))
}

func UserChannel(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func withUser(userID string, payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["user_id"] = userID
	return out
}

func eventRow(channel, event string, payload map[string]interface{}, at time.Time) map[string]interface{} {
	row := map[string]interface{}{
		"channel":    channel,
		"event":      event,
		"payload":    payload,
		"created_at": at.Format(time.RFC3339Nano),
	}
	if userID, ok := payload["user_id"].(string); ok {
		row["user_id"] = userID
	}
	return row
}
