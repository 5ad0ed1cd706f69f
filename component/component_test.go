package component

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/skillsenselab/regkit/registry"
)

// fakeComponent records lifecycle transitions into a shared log.
type fakeComponent struct {
	name     string
	events   *[]string
	startErr error
	stopErr  error
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.events = append(*f.events, "start:"+f.name)
	return nil
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return f.stopErr
}

func newFake(name string, events *[]string) *fakeComponent {
	return &fakeComponent{name: name, events: events}
}

func wantEvents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
}

func TestManagerAddAndGet(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	db := newFake("database", &events)
	if err := m.Add(db); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if got := m.Get("database"); got != Component(db) {
		t.Error("expected the added component back")
	}
	if got := m.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown component, got %v", got)
	}

	if err := m.Add(newFake("database", &events)); err == nil {
		t.Error("expected duplicate add to fail")
	}
}

func TestManagerStartOrder(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	for _, name := range []string{"database", "cache", "server"} {
		if err := m.Add(newFake(name, &events)); err != nil {
			t.Fatal(err)
		}
	}

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	wantEvents(t, events, "start:database", "start:cache", "start:server")
}

func TestManagerStartFailFast(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	ok := newFake("database", &events)
	bad := newFake("cache", &events)
	bad.startErr = fmt.Errorf("port in use")
	never := newFake("server", &events)

	for _, c := range []*fakeComponent{ok, bad, never} {
		if err := m.Add(c); err != nil {
			t.Fatal(err)
		}
	}

	err := m.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected start failure")
	}
	wantEvents(t, events, "start:database")
}

func TestManagerStopReverseOrder(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	for _, name := range []string{"database", "cache", "server"} {
		if err := m.Add(newFake(name, &events)); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	events = events[:0]

	m.StopAll()

	wantEvents(t, events, "stop:server", "stop:cache", "stop:database")
	if got := m.All(); len(got) != 0 {
		t.Errorf("expected no managed components after stop, got %v", got)
	}
}

func TestManagerStopHonorsDependencies(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	// server depends on database but is added first: reverse add order
	// alone would stop database before server; the dependency edge must
	// override that.
	if err := m.Add(newFake("server", &events), "database"); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(newFake("database", &events)); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	events = events[:0]

	m.StopAll()

	wantEvents(t, events, "stop:server", "stop:database")
}

func TestManagerStopSkipsUnstarted(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	if err := m.Add(newFake("database", &events)); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(newFake("cache", &events)); err != nil {
		t.Fatal(err)
	}

	// Nothing was started, so nothing must be stopped.
	m.StopAll()
	wantEvents(t, events)
}

func TestManagerStopErrorDoesNotAbort(t *testing.T) {
	m := NewManager(registry.New())
	var events []string

	bad := newFake("cache", &events)
	bad.stopErr = fmt.Errorf("flush failed")

	if err := m.Add(newFake("database", &events)); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(bad); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	events = events[:0]

	m.StopAll()

	wantEvents(t, events, "stop:cache", "stop:database")
}

func TestManagerRestartAfterStop(t *testing.T) {
	m := NewManager(registry.New(), WithStopTimeout(time.Second))
	var events []string

	if err := m.Add(newFake("database", &events)); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.StopAll()

	// The underlying registry is empty again, so the same name can be
	// managed in a fresh round.
	if err := m.Add(newFake("database", &events)); err != nil {
		t.Fatalf("expected re-add after stop to succeed: %v", err)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("expected restart to succeed: %v", err)
	}
}
