package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidrl/campus-connect/internal/domain"
)

func newLiveServer(t *testing.T, origins []string) (*LiveHandler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewLiveHandler(origins)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	engine := gin.New()
	engine.GET("/events/:eventID/live", h.HandleLiveFeed)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialLive(t *testing.T, url, eventID string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url+"/events/"+eventID+"/live", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var msg liveMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, liveSubscribed, msg.Type)
	require.Equal(t, eventID, msg.EventID)

	return conn
}

func TestLiveHandler_DeliversOnlyMatchingEvent(t *testing.T) {
	h, url := newLiveServer(t, nil)

	hackathon := dialLive(t, url, "hackathon-2024")
	careerFair := dialLive(t, url, "career-fair-2024")

	h.Publish(domain.RegistrationUpdate{
		Type:         domain.UpdateRegistered,
		EventID:      "career-fair-2024",
		Registration: domain.Registration{MSSV: "20230001", EventID: "career-fair-2024"},
	})
	h.Publish(domain.RegistrationUpdate{
		Type:         domain.UpdateCheckedIn,
		EventID:      "hackathon-2024",
		Registration: domain.Registration{MSSV: "20230592", EventID: "hackathon-2024"},
		Statistics:   &domain.Statistics{Total: 1, CheckedIn: 1},
	})

	var got domain.RegistrationUpdate
	require.NoError(t, hackathon.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, hackathon.ReadJSON(&got))
	assert.Equal(t, domain.UpdateCheckedIn, got.Type)
	assert.Equal(t, "20230592", got.Registration.MSSV)
	require.NotNil(t, got.Statistics)
	assert.Equal(t, 1, got.Statistics.CheckedIn)

	require.NoError(t, careerFair.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, careerFair.ReadJSON(&got))
	assert.Equal(t, domain.UpdateRegistered, got.Type)
	assert.Equal(t, "20230001", got.Registration.MSSV)
}

func TestLiveHandler_RejectsUnknownOrigin(t *testing.T) {
	_, url := newLiveServer(t, []string{"http://localhost:3000"})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url+"/events/hackathon-2024/live", header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLiveHandler_AllowsListedOrigin(t *testing.T) {
	_, url := newLiveServer(t, []string{"http://localhost:3000"})

	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(url+"/events/hackathon-2024/live", header)
	require.NoError(t, err)
	conn.Close()
}

func TestLiveHandler_PublishNeverBlocks(t *testing.T) {
	// Nobody runs the hub, so the queue fills up.
	h := NewLiveHandler(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(domain.RegistrationUpdate{EventID: "hackathon-2024"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}
