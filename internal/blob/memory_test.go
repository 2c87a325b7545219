package blob

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestMemoryStore_PutGet(t *testing.T) {
	t.Run("round trips content", func(t *testing.T) {
		store := NewMemoryStore("test")

		n, err := store.Put("key", strings.NewReader("payload"))
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if n != int64(len("payload")) {
			t.Errorf("Put() n = %d, want %d", n, len("payload"))
		}

		var buf bytes.Buffer
		if err := store.Get("key", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != "payload" {
			t.Errorf("Get() = %q, want %q", buf.String(), "payload")
		}
	})

	t.Run("get of missing key fails", func(t *testing.T) {
		store := NewMemoryStore("test")

		var buf bytes.Buffer
		if err := store.Get("missing", &buf); err == nil {
			t.Error("Get() expected error for missing key")
		}
	})
}

func TestMemoryStore_ExistsRemove(t *testing.T) {
	store := NewMemoryStore("test")

	if _, err := store.Put("key", strings.NewReader("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ok, _ := store.Exists("key"); !ok {
		t.Error("Exists(key) = false, want true")
	}

	if err := store.Remove("key"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if ok, _ := store.Exists("key"); ok {
		t.Error("Exists(key) = true after Remove, want false")
	}

	if err := store.Remove("never-existed"); err != nil {
		t.Errorf("Remove() of missing key error = %v, want nil", err)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore("test")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			if _, err := store.Put(key, strings.NewReader("data")); err != nil {
				t.Errorf("Put(%s) error = %v", key, err)
			}
			var buf bytes.Buffer
			if err := store.Get(key, &buf); err != nil {
				t.Errorf("Get(%s) error = %v", key, err)
			}
		}(i)
	}
	wg.Wait()
}
