package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePubSub struct {
	published []string
	handlers  map[uuid.UUID]func(event string, payload []byte)
	cancelled int
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{handlers: make(map[uuid.UUID]func(string, []byte))}
}

func (f *fakePubSub) PublishProjectEvent(projectID uuid.UUID, event string, payload []byte) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakePubSub) SubscribeProject(projectID uuid.UUID, handler func(event string, payload []byte)) (func(), error) {
	f.handlers[projectID] = handler
	return func() { f.cancelled++ }, nil
}

func testClient(projectID uuid.UUID) *Client {
	return &Client{ID: uuid.New().String(), ProjectID: projectID, send: make(chan WSMessage, 8)}
}

func TestHubBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	projectA := uuid.New()
	projectB := uuid.New()
	inRoom := testClient(projectA)
	outside := testClient(projectB)
	hub.Register(inRoom)
	hub.Register(outside)

	hub.BroadcastToProject(projectA, "team_created", map[string]string{"team_id": "t1"})

	select {
	case msg := <-inRoom.send:
		require.Equal(t, "team_created", msg.Event)
		var body map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &body))
		require.Equal(t, "t1", body["team_id"])
	default:
		t.Fatal("expected a message for the room member")
	}
	require.Empty(t, outside.send)
}

func TestHubSubscriptionLifecycle(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	projectID := uuid.New()

	first := testClient(projectID)
	second := testClient(projectID)
	hub.Register(first)
	hub.Register(second)
	require.Len(t, ps.handlers, 1, "one subscription per room")
	require.Equal(t, 2, hub.RoomCount(projectID))

	// an event arriving over Redis is delivered locally
	payload, _ := json.Marshal(map[string]bool{"confirmed": true})
	ps.handlers[projectID]("team_confirmed", payload)
	require.Equal(t, "team_confirmed", (<-first.send).Event)
	require.Equal(t, "team_confirmed", (<-second.send).Event)

	hub.Unregister(first)
	require.Zero(t, ps.cancelled)
	hub.Unregister(second)
	require.Equal(t, 1, ps.cancelled, "subscription cancelled when the room drains")
	require.Zero(t, hub.RoomCount(projectID))
}

func TestHubBroadcastAndPublish(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	projectID := uuid.New()
	c := testClient(projectID)
	hub.Register(c)

	hub.BroadcastToProjectAndPublish(projectID, "roster_changed", map[string]string{"team_id": "t1"})

	require.Equal(t, []string{"roster_changed"}, ps.published)
	require.Equal(t, "roster_changed", (<-c.send).Event)
}
