package keylock

import (
	"sync"
	"testing"
	"time"
)

func TestLock_SameKeyIsExclusive(t *testing.T) {
	var l Locker[uint64]
	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(7)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxSeen)
	}
	if n := l.Len(); n != 0 {
		t.Fatalf("entries left behind: %d", n)
	}
}

func TestLock_DifferentKeysDoNotBlock(t *testing.T) {
	var l Locker[uint64]
	unlock1 := l.Lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := l.Lock(2)
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on key 2 blocked behind key 1")
	}
}

func TestUnlock_Idempotent(t *testing.T) {
	var l Locker[string]
	unlock := l.Lock("a")
	unlock()
	unlock() // second call must not panic or underflow

	if n := l.Len(); n != 0 {
		t.Fatalf("entries = %d, want 0", n)
	}
}
