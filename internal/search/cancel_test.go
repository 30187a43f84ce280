package search

import (
	"sync"
	"testing"
)

func TestCancelToken(t *testing.T) {
	token := NewCancelToken()

	if token.Canceled() {
		t.Error("new token should not be canceled")
	}

	token.Cancel()
	if !token.Canceled() {
		t.Error("token should be canceled after Cancel")
	}

	// Idempotent: repeated cancels keep the flag set.
	token.Cancel()
	if !token.Canceled() {
		t.Error("token must stay canceled")
	}
}

func TestCancelToken_ConcurrentCancel(t *testing.T) {
	token := NewCancelToken()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token.Cancel()
		}()
	}
	wg.Wait()

	if !token.Canceled() {
		t.Error("token should be canceled after concurrent cancels")
	}
}
