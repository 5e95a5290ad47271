package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionLocks_SerialisesSameID(t *testing.T) {
	locks := newSessionLocks()

	unlock := locks.lock("a")
	acquired := make(chan struct{})
	go func() {
		release := locks.lock("a")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestSessionLocks_IndependentIDs(t *testing.T) {
	locks := newSessionLocks()

	unlockA := locks.lock("a")
	done := make(chan struct{})
	go func() {
		locks.lock("b")()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked by a")
	}
	unlockA()
}

func TestSessionLocks_ForgetsReleasedIDs(t *testing.T) {
	locks := newSessionLocks()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.lock("x")()
		}()
	}
	wg.Wait()

	assert.Zero(t, locks.size())
}
