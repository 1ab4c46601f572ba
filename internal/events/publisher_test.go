package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream captures XADD calls; every other Cmdable method panics if used.
type fakeStream struct {
	redis.Cmdable
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	cmd := redis.NewStringCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal("1-0")
	}
	return cmd
}

func TestStreamPublisher_Publish(t *testing.T) {
	fs := &fakeStream{}
	p := NewStreamPublisher(fs, "", 100)

	at := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type:          "appointment.confirmed",
		AppointmentID: "a1",
		Number:        "VA20250315-000001",
		Status:        "confirmed",
		Operator:      "admin",
		OccurredAt:    at,
		Data:          map[string]any{"remark": "ok"},
	})
	require.NoError(t, err)
	require.Len(t, fs.calls, 1)

	got := fs.calls[0]
	assert.Equal(t, "appointments.events", got.Stream)
	assert.Equal(t, int64(100), got.MaxLen)
	assert.True(t, got.Approx)
	values := got.Values.(map[string]any)
	assert.Equal(t, "appointment.confirmed", values["type"])
	assert.Equal(t, "a1", values["appointment_id"])
	assert.Equal(t, "2025-03-15T10:30:00Z", values["occurred_at"])
	assert.JSONEq(t, `{"remark":"ok"}`, values["data"].(string))
}

func TestStreamPublisher_WrapsError(t *testing.T) {
	boom := errors.New("connection refused")
	p := NewStreamPublisher(&fakeStream{err: boom}, "s", 0)

	err := p.Publish(context.Background(), Event{Type: "appointment.created"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
