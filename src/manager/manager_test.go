package manager_test

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/manager"
	"github.com/GopherSecurity/eventchain/src/types"
)

func newRegistryWithBuiltins(t *testing.T) *manager.Registry {
	t.Helper()
	registry := manager.NewRegistry()
	if err := manager.RegisterBuiltins(registry); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	return registry
}

// Test 1: Chain registration, lookup, and removal.
func TestRegistry_Chains(t *testing.T) {
	registry := manager.NewRegistry()
	chain := core.NewFilterChain()

	id, err := registry.RegisterChain("ingress", chain)
	if err != nil {
		t.Fatalf("RegisterChain failed: %v", err)
	}

	got, ok := registry.GetChain("ingress")
	if !ok || got != chain {
		t.Error("GetChain should return the registered chain")
	}
	if gotID, ok := registry.ChainID("ingress"); !ok || gotID != id {
		t.Error("ChainID should return the issued handle")
	}

	// Duplicate name is rejected.
	if _, err := registry.RegisterChain("ingress", core.NewFilterChain()); err == nil {
		t.Error("duplicate chain name should fail")
	} else if code, _ := types.CodeOf(err); code != types.InvalidConfiguration {
		t.Errorf("duplicate code = %v, want InvalidConfiguration", code)
	}

	if err := registry.RemoveChain("ingress"); err != nil {
		t.Fatalf("RemoveChain failed: %v", err)
	}
	if err := registry.RemoveChain("ingress"); err == nil {
		t.Error("removing a missing chain should fail")
	} else if code, _ := types.CodeOf(err); code != types.ChainNotFound {
		t.Errorf("missing code = %v, want ChainNotFound", code)
	}
}

// Test 2: Filter factories by type name.
func TestRegistry_Factories(t *testing.T) {
	registry := newRegistryWithBuiltins(t)

	filter, err := registry.CreateFilter("validation", map[string]interface{}{
		"require_name": true,
	})
	if err != nil {
		t.Fatalf("CreateFilter failed: %v", err)
	}
	if filter == nil {
		t.Fatal("CreateFilter returned nil filter")
	}

	if _, err := registry.CreateFilter("nonexistent", nil); err == nil {
		t.Error("unknown filter type should fail")
	} else if code, _ := types.CodeOf(err); code != types.FilterNotFound {
		t.Errorf("unknown type code = %v, want FilterNotFound", code)
	}

	// Re-registering a builtin type name collides.
	err = registry.RegisterFilterType("logging", func(map[string]interface{}) (core.Filter, error) {
		return nil, nil
	})
	if err == nil {
		t.Error("duplicate filter type should fail")
	}
}

// Test 3: Builder assembles working chains and defers errors to Build.
func TestChainBuilder(t *testing.T) {
	var messages []string
	var order []string

	chain, err := manager.NewChainBuilder("test").
		WithDisregard(func(msg string) { messages = append(messages, msg) }).
		AddFunc(func(event *types.Event, c *core.FilterChain) {
			order = append(order, "A")
			c.Next(event)
		}).
		AddFunc(func(event *types.Event, c *core.FilterChain) {
			order = append(order, "B")
			c.Disregard("stop here")
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	chain.Next(types.NewEvent("e", nil))

	if len(order) != 2 {
		t.Errorf("dispatched %v, want [A B]", order)
	}
	if len(messages) != 1 || messages[0] != "stop here" {
		t.Errorf("messages = %v, want [stop here]", messages)
	}

	// First error wins.
	_, err = manager.NewChainBuilder("bad").
		Add(nil).
		WithDisregard(nil).
		Build()
	if err == nil {
		t.Fatal("Build should surface the recorded error")
	}
	if code, _ := types.CodeOf(err); code != types.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", code)
	}
}

// Test 4: BuildInto registers under the builder's name.
func TestChainBuilder_BuildInto(t *testing.T) {
	registry := manager.NewRegistry()

	chain, err := manager.NewChainBuilder("ingress").
		AddFunc(func(event *types.Event, c *core.FilterChain) { c.Next(event) }).
		BuildInto(registry)
	if err != nil {
		t.Fatalf("BuildInto failed: %v", err)
	}

	got, ok := registry.GetChain("ingress")
	if !ok || got != chain {
		t.Error("BuildInto should register the built chain")
	}
}

// Test 5: Config parsing, validation, and chain materialization.
func TestConfig_BuildChains(t *testing.T) {
	registry := newRegistryWithBuiltins(t)

	cfg, err := manager.ParseConfig([]byte(`
chains:
  - name: ingress
    filters:
      - type: validation
        settings:
          require_name: true
      - type: logging
        settings:
          prefix: ingress
  - name: egress
    filters:
      - type: dedup
        settings:
          ttl_seconds: 1
`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Fatalf("Validate returned errors: %v", errs)
	}

	var messages []string
	chains, err := cfg.BuildChains(registry, func(msg string) {
		messages = append(messages, msg)
	})
	if err != nil {
		t.Fatalf("BuildChains failed: %v", err)
	}
	if len(chains) != 2 {
		t.Fatalf("built %d chains, want 2", len(chains))
	}
	if chains["ingress"].Size() != 2 {
		t.Errorf("ingress size = %d, want 2", chains["ingress"].Size())
	}

	// A nameless event trips the configured validation filter.
	chains["ingress"].Next(types.NewEvent("", nil))
	if len(messages) != 1 {
		t.Errorf("expected one disregard, got %v", messages)
	}
}

// Test 6: Config validation collects every problem.
func TestConfig_Validate(t *testing.T) {
	cfg, err := manager.ParseConfig([]byte(`
chains:
  - name: ""
    filters:
      - type: ""
  - name: dup
    filters: []
  - name: dup
    filters: []
`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("Validate returned %d errors, want 3: %v", len(errs), errs)
	}
}

// Test 7: BuildChains fails on unknown filter types.
func TestConfig_BuildChains_UnknownType(t *testing.T) {
	registry := newRegistryWithBuiltins(t)

	cfg, err := manager.ParseConfig([]byte(`
chains:
  - name: broken
    filters:
      - type: does-not-exist
`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if _, err := cfg.BuildChains(registry, nil); err == nil {
		t.Error("unknown filter type should fail the build")
	}
}

// Test 8: Watcher installs the initial config and swaps on rewrite;
// an invalid rewrite keeps the last good configuration.
func TestConfigWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chains.yaml")

	writeFile := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	writeFile(`
chains:
  - name: ingress
    filters:
      - type: logging
`)

	registry := newRegistryWithBuiltins(t)
	watcher, err := manager.NewConfigWatcher(path, registry, nil)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	watcher.SetLogger(log.New(io.Discard, "", 0))

	if err := watcher.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := registry.GetChain("ingress"); !ok {
		t.Fatal("initial load should install the ingress chain")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	// Rewrite with a second chain and wait for the swap.
	writeFile(`
chains:
  - name: ingress
    filters:
      - type: logging
  - name: egress
    filters:
      - type: logging
`)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := registry.GetChain("egress"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher did not install the rewritten config")
		}
		time.Sleep(20 * time.Millisecond)
	}

	// An invalid rewrite must not clobber the live chains.
	writeFile(`chains: [`)
	time.Sleep(300 * time.Millisecond)
	if _, ok := registry.GetChain("egress"); !ok {
		t.Error("invalid rewrite should keep the last good configuration")
	}
}

// Test 9: A Start that fails to watch the path leaves the watcher idle,
// and Stop returns promptly instead of waiting on a loop that never ran.
func TestConfigWatcher_StopAfterFailedStart(t *testing.T) {
	registry := newRegistryWithBuiltins(t)

	path := filepath.Join(t.TempDir(), "missing.yaml")
	watcher, err := manager.NewConfigWatcher(path, registry, nil)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}

	if err := watcher.Start(context.Background()); err == nil {
		t.Fatal("Start on a nonexistent path should fail")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- watcher.Stop() }()

	select {
	case err := <-stopped:
		if err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after a failed Start")
	}
}

// Test 10: Stop without Start closes the underlying watcher.
func TestConfigWatcher_StopWithoutStart(t *testing.T) {
	registry := newRegistryWithBuiltins(t)

	watcher, err := manager.NewConfigWatcher(filepath.Join(t.TempDir(), "chains.yaml"), registry, nil)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop before Start failed: %v", err)
	}
}
