package ingest

import "sync"

// Progress is one progress report of a scan.
type Progress struct {
	Processed int
	Total     int
	Status    string
}

// ProgressSink receives progress reports. Reports arrive on a goroutine
// owned by the coordinator, one at a time, with non-decreasing Processed.
type ProgressSink interface {
	OnProgress(processed, total int, status string)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(processed, total int, status string)

// OnProgress calls f.
func (f ProgressFunc) OnProgress(processed, total int, status string) {
	f(processed, total, status)
}

// ChannelSink forwards reports to a buffered channel. Reports are dropped
// while the channel is full.
type ChannelSink struct {
	ch chan Progress
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{ch: make(chan Progress, buffer)}
}

// C returns the channel reports are delivered on.
func (s *ChannelSink) C() <-chan Progress {
	return s.ch
}

// OnProgress implements ProgressSink.
func (s *ChannelSink) OnProgress(processed, total int, status string) {
	select {
	case s.ch <- Progress{Processed: processed, Total: total, Status: status}:
	default:
	}
}

// dispatcher delivers reports to a sink from its own goroutine. When the sink
// is slower than the scan, intermediate reports are coalesced into the latest.
type dispatcher struct {
	sink    ProgressSink
	mu      sync.Mutex
	pending *Progress
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

func newDispatcher(sink ProgressSink) *dispatcher {
	d := &dispatcher{
		sink:    sink,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *dispatcher) emit(p Progress) {
	if d.sink == nil {
		return
	}
	d.mu.Lock()
	d.pending = &p
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) loop() {
	defer close(d.stopped)
	for {
		select {
		case <-d.wake:
			d.flush()
		case <-d.done:
			d.flush()
			return
		}
	}
}

func (d *dispatcher) flush() {
	d.mu.Lock()
	p := d.pending
	d.pending = nil
	d.mu.Unlock()
	if p != nil && d.sink != nil {
		d.sink.OnProgress(p.Processed, p.Total, p.Status)
	}
}

// close delivers the last pending report and waits for the goroutine to exit.
func (d *dispatcher) close() {
	close(d.done)
	<-d.stopped
}
