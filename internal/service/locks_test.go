package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestKeyedMutexSerialisesPerKey(t *testing.T) {
	k := newKeyedMutex()
	id := uuid.New()
	other := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(id)
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}

	// A different key is never blocked by a held one.
	unlock := k.Lock(id)
	done := make(chan struct{})
	go func() {
		u := k.Lock(other)
		u()
		close(done)
	}()
	<-done
	unlock()

	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if n := k.size(); n != 0 {
		t.Fatalf("size = %d after all unlocks, want 0", n)
	}
}
