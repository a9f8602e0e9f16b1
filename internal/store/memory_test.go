package store_test

import (
	"testing"

	"github.com/neboloop/mindsort/internal/store"
	"github.com/neboloop/mindsort/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}
