package natsrpc

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
)

var natsUrl string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("failed to start nats container: %s", err)
	}
	natsUrl, err = container.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		log.Fatalf("failed to obtain nats endpoint: %s", err)
	}

	exitCode := m.Run()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(exitCode)
}

type MockDispatcher struct {
	DispatchFunc func(ctx context.Context, pattern string, payload []byte) api.Envelope
	PatternsFunc func() []string
}

func (m *MockDispatcher) Dispatch(ctx context.Context, pattern string, payload []byte) api.Envelope {
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, pattern, payload)
	}
	return api.Envelope{Status: 201, Message: "Success"}
}

func (m *MockDispatcher) Patterns() []string {
	if m.PatternsFunc != nil {
		return m.PatternsFunc()
	}
	return []string{"auth_store", "auth_login"}
}

func connect(t *testing.T) *nats.Conn {
	t.Helper()
	if natsUrl == "" {
		t.Skip("integration test: requires docker, skipped in -short mode")
	}
	nc, err := Connect(context.Background(), natsUrl, 3)
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func request(t *testing.T, nc *nats.Conn, subject string, payload string) api.Envelope {
	t.Helper()
	msg, err := nc.Request(subject, []byte(payload), 5*time.Second)
	require.NoError(t, err)
	var env api.Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &env))
	return env
}

func TestServerRepliesWithEnvelope(t *testing.T) {
	serverConn := connect(t)
	clientConn := connect(t)

	var seen atomic.Value
	d := &MockDispatcher{
		DispatchFunc: func(_ context.Context, pattern string, payload []byte) api.Envelope {
			seen.Store(pattern + " " + string(payload))
			if pattern == "auth_login" {
				return api.Envelope{Status: 401, Message: "Email não encontrado"}
			}
			return api.Envelope{Status: 201, Message: "Success"}
		},
	}
	srv := NewServer(serverConn, d, "test-queue")
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	env := request(t, clientConn, "auth_store", `{"email":"a@b.com"}`)
	assert.Equal(t, api.Envelope{Status: 201, Message: "Success"}, env)
	assert.Equal(t, `auth_store {"email":"a@b.com"}`, seen.Load())

	env = request(t, clientConn, "auth_login", `{}`)
	assert.Equal(t, 401, env.Status)
	assert.Equal(t, "Email não encontrado", env.Message)
}

func TestServerQueueGroupDeliversOnce(t *testing.T) {
	clientConn := connect(t)

	var calls atomic.Int32
	d := &MockDispatcher{
		PatternsFunc: func() []string { return []string{"auth_store_once"} },
		DispatchFunc: func(context.Context, string, []byte) api.Envelope {
			calls.Add(1)
			return api.Envelope{Status: 201, Message: "Success"}
		},
	}
	for i := 0; i < 2; i++ {
		srv := NewServer(connect(t), d, "shared-queue")
		require.NoError(t, srv.Start())
		t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	}

	request(t, clientConn, "auth_store_once", `{}`)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestShutdownWaitsForInflight(t *testing.T) {
	serverConn := connect(t)
	clientConn := connect(t)

	started := make(chan struct{})
	release := make(chan struct{})
	d := &MockDispatcher{
		PatternsFunc: func() []string { return []string{"auth_slow"} },
		DispatchFunc: func(context.Context, string, []byte) api.Envelope {
			close(started)
			<-release
			return api.Envelope{Status: 200, Message: "late"}
		},
	}
	srv := NewServer(serverConn, d, "slow-queue")
	require.NoError(t, srv.Start())

	replies := make(chan *nats.Msg, 1)
	go func() {
		msg, err := clientConn.Request("auth_slow", []byte(`{}`), 5*time.Second)
		if err == nil {
			replies <- msg
		}
		close(replies)
	}()
	<-started

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- srv.Shutdown(context.Background()) }()

	select {
	case <-shutdownDone:
		t.Fatal("shutdown returned before in-flight request finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-shutdownDone)
	msg, ok := <-replies
	require.True(t, ok, "expected a reply")
	assert.Contains(t, string(msg.Data), `"late"`)
}

func TestConnectGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Connect(ctx, "nats://127.0.0.1:1", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats")
}
