package simlink_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/replay"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/simlink"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/rtsbot-go/test/helpers"
)

// fakeSimulation plays a scripted match and collects what the bot sends back
type fakeSimulation struct {
	script   []wire.Envelope
	received chan []wire.Command
}

func (f *fakeSimulation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	got, ok := f.play(conn)
	f.received <- got
	if !ok {
		return
	}
	// stay open until the bot hangs up
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *fakeSimulation) play(conn *websocket.Conn) ([]wire.Command, bool) {
	var got []wire.Command
	for _, env := range f.script {
		if err := conn.WriteJSON(env); err != nil {
			return got, false
		}
		if env.Kind != wire.KindFrame {
			continue
		}
		// wait for the bot to finish the frame
		for {
			var cmd wire.Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return got, false
			}
			got = append(got, cmd)
			if cmd.Kind == wire.CommandDone {
				break
			}
		}
	}
	return got, true
}

func startFake(t *testing.T, script []wire.Envelope) (*fakeSimulation, string) {
	t.Helper()
	fake := &fakeSimulation{script: script, received: make(chan []wire.Command, 1)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newBot(client *simlink.Client) (*wire.Session, *bot.Orchestrator) {
	session := wire.NewSession(client, helpers.TwoBaseMapSource(), "", nil, zerolog.Nop())
	logger := zerolog.Nop()
	orch := bot.NewOrchestrator(bot.DefaultConfig(), session, bot.Options{
		Factories: strategy.Factories{Game: strategy.NewBuildOrderFactory([]unit.TypeTag{unit.TerranSupplyDepot})},
		Logger:    &logger,
		Verbosity: func(bool) {},
	})
	return session, orch
}

func linkConfig(url string) config.SimLinkConfig {
	return config.SimLinkConfig{URL: url, HandshakeTimeout: time.Second, CommandRate: 100, CommandBurst: 10}
}

func script() []wire.Envelope {
	envs := helpers.OpeningEnvelopes()
	for frame := 2; frame <= 6; frame++ {
		envs = append(envs, helpers.FrameEnvelope(frame, 150, 0))
	}
	return append(envs, wire.Envelope{Kind: wire.KindEnd, Frame: 7})
}

func TestClient_PlaysMatchAndAcknowledgesFrames(t *testing.T) {
	// Arrange
	fake, url := startFake(t, script())
	client := simlink.NewClient(linkConfig(url), zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()
	session, orch := newBot(client)

	// Act
	stats, err := client.Serve(context.Background(), session, orch)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Frames)
	assert.Equal(t, 1, stats.Matches)
	assert.True(t, session.Ended())

	var got []wire.Command
	select {
	case got = <-fake.received:
	case <-time.After(5 * time.Second):
		t.Fatal("simulation never finished")
	}
	var builds, dones int
	for _, cmd := range got {
		switch cmd.Kind {
		case wire.CommandBuild:
			builds++
			assert.Equal(t, 5, cmd.Frame)
		case wire.CommandDone:
			dones++
		}
	}
	assert.Equal(t, 1, builds)
	assert.Equal(t, 5, dones)
}

func TestClient_RecordsInboundStream(t *testing.T) {
	// Arrange
	_, url := startFake(t, script())
	client := simlink.NewClient(linkConfig(url), zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()
	var buf bytes.Buffer
	rec, err := replay.NewWriter(&buf, replay.CompressionNone)
	require.NoError(t, err)
	client.Record(rec)
	session, orch := newBot(client)

	// Act
	_, err = client.Serve(context.Background(), session, orch)
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	// Assert
	assert.Equal(t, len(script()), rec.Count())
	r, err := replay.NewReader(&buf)
	require.NoError(t, err)
	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, wire.KindStart, first.Kind)
}

func TestClient_RateLimitsCommands(t *testing.T) {
	// Arrange
	_, url := startFake(t, nil)
	cfg := linkConfig(url)
	cfg.CommandRate = 0.001
	cfg.CommandBurst = 1
	client := simlink.NewClient(cfg, zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	// Act
	first := client.Send(wire.Command{Kind: wire.CommandText, Text: "hello"})
	second := client.Send(wire.Command{Kind: wire.CommandText, Text: "again"})
	done := client.Send(wire.Command{Kind: wire.CommandDone, Frame: 1})

	// Assert
	assert.NoError(t, first)
	assert.ErrorIs(t, second, simlink.ErrRateLimited)
	assert.NoError(t, done)
}

func TestClient_SendBeforeConnect(t *testing.T) {
	// Arrange
	client := simlink.NewClient(linkConfig("ws://127.0.0.1:1/bot"), zerolog.Nop())

	// Act
	err := client.Send(wire.Command{Kind: wire.CommandDone})

	// Assert
	assert.ErrorIs(t, err, simlink.ErrNotConnected)
}

func TestClient_ServeStopsOnCancel(t *testing.T) {
	// Arrange: the simulation opens a match and then goes quiet
	_, url := startFake(t, []wire.Envelope{helpers.StartEnvelope(), helpers.FrameEnvelope(1, 50, 0)})
	client := simlink.NewClient(linkConfig(url), zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()
	session, orch := newBot(client)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Act
	_, err := client.Serve(ctx, session, orch)

	// Assert
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
