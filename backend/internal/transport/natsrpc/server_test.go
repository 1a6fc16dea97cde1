package natsrpc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/api"
)

func TestHandleDropsMessagesAfterStopAccepting(t *testing.T) {
	var calls atomic.Int32
	d := &MockDispatcher{
		DispatchFunc: func(context.Context, string, []byte) api.Envelope {
			calls.Add(1)
			return api.Envelope{Status: 201, Message: "Success"}
		},
	}
	srv := NewServer(nil, d, "q")
	srv.stopAccepting()

	srv.handle("auth_store")(&nats.Msg{Subject: "auth_store", Data: []byte(`{}`)})

	done := make(chan struct{})
	go func() {
		srv.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("in-flight count should stay zero once closed")
	}
	assert.Zero(t, calls.Load())
}

func TestAcquireRacesWithStopAccepting(t *testing.T) {
	srv := NewServer(nil, &MockDispatcher{}, "q")

	var wg sync.WaitGroup
	var acquired atomic.Int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if srv.acquire() {
				acquired.Add(1)
				srv.inflight.Done()
			}
		}()
	}
	srv.stopAccepting()
	srv.inflight.Wait()
	wg.Wait()

	assert.False(t, srv.acquire())
	assert.LessOrEqual(t, acquired.Load(), int32(100))
}
