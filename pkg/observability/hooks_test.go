package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBufferHooks{}
	b.OnBufferStart(ctx, "Polygon", 2.5)
	b.OnBufferComplete(ctx, "Polygon", 1, time.Millisecond, nil)
	b.OnPrecisionRetry(ctx, "reduced", 12, 1e10, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "buffer")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "buffer", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "example.com", "/parks.geojson")
	h.OnResponse(ctx, "GET", "example.com", "/parks.geojson", 200, time.Second)
	h.OnError(ctx, "GET", "example.com", "/parks.geojson", nil)

	s := NoopServerHooks{}
	s.OnRequestStart(ctx, "id", "POST", "/v1/buffer")
	s.OnRequestComplete(ctx, "id", "POST", "/v1/buffer", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Buffer().(NoopBufferHooks); !ok {
		t.Error("Buffer() should return NoopBufferHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customBuffer := &testBufferHooks{}
	SetBufferHooks(customBuffer)
	if Buffer() != customBuffer {
		t.Error("SetBufferHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Buffer().(NoopBufferHooks); !ok {
		t.Error("Reset() should restore NoopBufferHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Reset() should restore NoopServerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testBufferHooks{}
	SetBufferHooks(custom)
	SetBufferHooks(nil)

	if Buffer() != custom {
		t.Error("SetBufferHooks(nil) should be ignored")
	}
}

type testBufferHooks struct{ NoopBufferHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testServerHooks struct{ NoopServerHooks }
