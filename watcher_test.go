// watcher_test.go: Testing the polling file watcher
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestWatcher() *watcher {
	return newWatcher(20*time.Millisecond, 10*time.Millisecond, nil)
}

func TestWatcherStartStopLifecycle(t *testing.T) {
	w := newTestWatcher()

	if w.IsRunning() {
		t.Fatal("new watcher should not be running")
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !w.IsRunning() {
		t.Fatal("watcher should be running after Start")
	}

	err := w.Start()
	assertErrorCode(t, err, ErrCodeWatcherBusy)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	err = w.Stop()
	assertErrorCode(t, err, ErrCodeWatcherStopped)
}

func TestWatcherNilCallbackRejected(t *testing.T) {
	w := newTestWatcher()
	err := w.Watch("/tmp/x", nil)
	assertErrorCode(t, err, ErrCodeInvalidConfig)
}

func TestWatcherDetectsModification(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "watched.txt", "one")

	w := newTestWatcher()

	events := make(chan ChangeEvent, 8)
	if err := w.Watch(path, func(e ChangeEvent) { events <- e }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	time.Sleep(30 * time.Millisecond)
	writeTestFile(t, dir, "watched.txt", "two and longer")

	select {
	case e := <-events:
		if !e.IsModify {
			t.Errorf("expected modify event, got %+v", e)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for modify event")
	}
}

func TestWatcherDetectsCreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appears.txt")

	w := newTestWatcher()

	events := make(chan ChangeEvent, 8)
	if err := w.Watch(path, func(e ChangeEvent) { events <- e }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	time.Sleep(30 * time.Millisecond)
	writeTestFile(t, dir, "appears.txt", "now exists")

	select {
	case e := <-events:
		if !e.IsCreate {
			t.Errorf("expected create event, got %+v", e)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for create event")
	}

	time.Sleep(30 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	select {
	case e := <-events:
		if !e.IsDelete {
			t.Errorf("expected delete event, got %+v", e)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for delete event")
	}
}

func TestWatcherUnwatchStopsEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "watched.txt", "one")

	w := newTestWatcher()

	var mu sync.Mutex
	count := 0
	if err := w.Watch(path, func(ChangeEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	w.Unwatch(path)
	time.Sleep(30 * time.Millisecond)
	writeTestFile(t, dir, "watched.txt", "two")
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("events after Unwatch: %d", count)
	}
}

func TestWatcherCallbackPanicDoesNotStopLoop(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "watched.txt", "one")

	w := newTestWatcher()

	events := make(chan struct{}, 8)
	first := true
	if err := w.Watch(path, func(ChangeEvent) {
		if first {
			first = false
			panic("callback exploded")
		}
		events <- struct{}{}
	}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	time.Sleep(30 * time.Millisecond)
	writeTestFile(t, dir, "watched.txt", "two")
	time.Sleep(60 * time.Millisecond)
	writeTestFile(t, dir, "watched.txt", "three plus extra")

	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher loop died after callback panic")
	}
}
