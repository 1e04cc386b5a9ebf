package ui

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_SingleCall(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}

func TestDebouncer_RapidCalls(t *testing.T) {
	var called int32
	var lastValue int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	for i := 1; i <= 10; i++ {
		value := int32(i)
		debouncer.Debounce(func() {
			atomic.StoreInt32(&lastValue, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call for rapid succession, got %d", called)
	}
	if atomic.LoadInt32(&lastValue) != 10 {
		t.Errorf("Expected last value 10, got %d", lastValue)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})
	debouncer.Cancel()

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 0 {
		t.Errorf("Expected 0 calls after cancel, got %d", called)
	}
}

func TestDebouncer_Immediate(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 10)
	})
	debouncer.Immediate(func() {
		atomic.AddInt32(&called, 1)
	})

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected only the immediate call, got %d", called)
	}
}

func TestValueDebouncer_DeliversLatest(t *testing.T) {
	vd := NewValueDebouncer[string](40 * time.Millisecond)
	got := make(chan string, 4)

	for _, code := range []string{"p", "pr", "pri", "print()"} {
		vd.Submit(code, func(v string) { got <- v })
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case v := <-got:
		if v != "print()" {
			t.Errorf("Expected latest value, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}

	time.Sleep(80 * time.Millisecond)
	if len(got) != 0 {
		t.Errorf("Expected a single delivery, got %d more", len(got))
	}
	if last, ok := vd.Last(); !ok || last != "print()" {
		t.Errorf("Last() = %q, %v", last, ok)
	}
}

func TestValueDebouncer_Cancel(t *testing.T) {
	vd := NewValueDebouncer[float64](30 * time.Millisecond)
	var called int32
	vd.Submit(0.4, func(float64) { atomic.AddInt32(&called, 1) })
	vd.Cancel()
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&called) != 0 {
		t.Errorf("Expected no delivery after cancel")
	}
	if _, ok := vd.Last(); ok {
		t.Errorf("Expected no last value")
	}
}
