package ingest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelSink_DropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)
	sink.OnProgress(1, 10, "first")
	sink.OnProgress(2, 10, "second")

	got := <-sink.C()
	assert.Equal(t, Progress{Processed: 1, Total: 10, Status: "first"}, got)
	select {
	case p := <-sink.C():
		t.Fatalf("unexpected report %+v", p)
	default:
	}
}

func TestDispatcher_DeliversLastReport(t *testing.T) {
	var mu sync.Mutex
	var got []int
	d := newDispatcher(ProgressFunc(func(processed, _ int, _ string) {
		mu.Lock()
		got = append(got, processed)
		mu.Unlock()
	}))

	for i := 1; i <= 50; i++ {
		d.emit(Progress{Processed: i})
	}
	d.close()

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, got)
	assert.Equal(t, 50, got[len(got)-1])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestDispatcher_NilSink(t *testing.T) {
	d := newDispatcher(nil)
	d.emit(Progress{Processed: 1})
	d.close()
}
