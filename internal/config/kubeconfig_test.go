package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aryankumar/fleetdeck/internal/util"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

func TestNewKubeconfigStore(t *testing.T) {
	tests := []struct {
		name          string
		explicitPath  string
		kubeconfigEnv string
		wantPaths     int
	}{
		{
			name:          "explicit path takes precedence",
			explicitPath:  "/path/to/kubeconfig",
			kubeconfigEnv: "/env/kubeconfig",
			wantPaths:     1,
		},
		{
			name:          "KUBECONFIG with single path",
			kubeconfigEnv: "/env/kubeconfig",
			wantPaths:     1,
		},
		{
			name:          "KUBECONFIG with multiple paths",
			kubeconfigEnv: "/env/kubeconfig1:/env/kubeconfig2:/env/kubeconfig3",
			wantPaths:     3,
		},
		{
			name:      "default to ~/.kube/config",
			wantPaths: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.kubeconfigEnv)

			store := NewKubeconfigStore(tt.explicitPath, nil)

			if len(store.Paths()) != tt.wantPaths {
				t.Errorf("got %d paths, want %d", len(store.Paths()), tt.wantPaths)
			}
		})
	}
}

func TestKubeconfigStore_ListContexts(t *testing.T) {
	store, _ := newTestStore(t)

	contexts, err := store.ListContexts()
	if err != nil {
		t.Fatalf("failed to list contexts: %v", err)
	}

	want := []string{"alpha", "bravo", "charlie"}
	if len(contexts) != len(want) {
		t.Fatalf("got %d contexts, want %d", len(contexts), len(want))
	}
	for i, name := range want {
		if contexts[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, contexts[i].Name, name)
		}
	}

	bravo := contexts[1]
	if !bravo.Current {
		t.Error("expected bravo to be current")
	}
	if bravo.Server != "https://bravo:6443" {
		t.Errorf("got server %q", bravo.Server)
	}
	if bravo.Namespace != "shop" {
		t.Errorf("got namespace %q, want %q", bravo.Namespace, "shop")
	}
	if bravo.CredentialsRef != "bravo-user" {
		t.Errorf("got credentials ref %q", bravo.CredentialsRef)
	}

	// alpha has no namespace in the file
	if contexts[0].Namespace != "default" {
		t.Errorf("got namespace %q, want default", contexts[0].Namespace)
	}
}

func TestKubeconfigStore_GetCurrent(t *testing.T) {
	store, _ := newTestStore(t)

	current, err := store.GetCurrent()
	if err != nil {
		t.Fatalf("failed to get current: %v", err)
	}
	if current.Name != "bravo" {
		t.Errorf("got %q, want bravo", current.Name)
	}

	name, err := store.CurrentName()
	if err != nil {
		t.Fatalf("failed to get current name: %v", err)
	}
	if name != "bravo" {
		t.Errorf("got %q, want bravo", name)
	}
}

func TestKubeconfigStore_GetCurrentUnset(t *testing.T) {
	cfg := testKubeconfig()
	cfg.CurrentContext = ""
	store, _ := writeTestStore(t, cfg)

	name, err := store.CurrentName()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" {
		t.Errorf("got %q, want empty", name)
	}

	if _, err := store.GetCurrent(); !errors.Is(err, util.ErrClusterNotFound) {
		t.Errorf("expected ErrClusterNotFound, got %v", err)
	}
}

func TestKubeconfigStore_SetCurrent(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.SetCurrent("charlie"); err != nil {
		t.Fatalf("failed to set current: %v", err)
	}

	onDisk, err := clientcmd.LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to reload kubeconfig: %v", err)
	}
	if onDisk.CurrentContext != "charlie" {
		t.Errorf("file has current-context %q, want charlie", onDisk.CurrentContext)
	}

	current, err := store.GetCurrent()
	if err != nil {
		t.Fatalf("failed to get current: %v", err)
	}
	if current.Name != "charlie" {
		t.Errorf("got %q, want charlie", current.Name)
	}
}

func TestKubeconfigStore_SetCurrentUnknown(t *testing.T) {
	store, path := newTestStore(t)

	err := store.SetCurrent("zulu")
	var notFound *util.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Name != "zulu" {
		t.Errorf("got name %q, want zulu", notFound.Name)
	}

	onDisk, err := clientcmd.LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to reload kubeconfig: %v", err)
	}
	if onDisk.CurrentContext != "bravo" {
		t.Errorf("current-context changed to %q", onDisk.CurrentContext)
	}
}

func TestKubeconfigStore_RemoveContext(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		check   func(t *testing.T, err error)
		wantLen int
	}{
		{
			name:   "removes inactive context",
			target: "alpha",
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			},
			wantLen: 2,
		},
		{
			name:   "refuses current context",
			target: "bravo",
			check: func(t *testing.T, err error) {
				var inUse *util.InUseError
				if !errors.As(err, &inUse) {
					t.Fatalf("expected InUseError, got %v", err)
				}
			},
			wantLen: 3,
		},
		{
			name:   "unknown context",
			target: "zulu",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, util.ErrClusterNotFound) {
					t.Fatalf("expected ErrClusterNotFound, got %v", err)
				}
			},
			wantLen: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStore(t)

			tt.check(t, store.RemoveContext(tt.target))

			onDisk, err := clientcmd.LoadFromFile(path)
			if err != nil {
				t.Fatalf("failed to reload kubeconfig: %v", err)
			}
			if len(onDisk.Contexts) != tt.wantLen {
				t.Errorf("file has %d contexts, want %d", len(onDisk.Contexts), tt.wantLen)
			}
			if onDisk.CurrentContext != "bravo" {
				t.Errorf("current-context changed to %q", onDisk.CurrentContext)
			}
		})
	}
}

func TestKubeconfigStore_AddContext(t *testing.T) {
	t.Run("creates cluster entry from server", func(t *testing.T) {
		store, path := newTestStore(t)

		err := store.AddContext(ClusterContext{
			Name:           "delta",
			Server:         "https://delta:6443",
			Namespace:      "ops",
			CredentialsRef: "alpha-user",
		})
		if err != nil {
			t.Fatalf("failed to add context: %v", err)
		}

		onDisk, err := clientcmd.LoadFromFile(path)
		if err != nil {
			t.Fatalf("failed to reload kubeconfig: %v", err)
		}
		kctx, ok := onDisk.Contexts["delta"]
		if !ok {
			t.Fatal("delta not written")
		}
		if kctx.AuthInfo != "alpha-user" || kctx.Namespace != "ops" {
			t.Errorf("unexpected context entry %+v", kctx)
		}
		if onDisk.Clusters["delta"] == nil || onDisk.Clusters["delta"].Server != "https://delta:6443" {
			t.Error("cluster entry not created")
		}

		got, err := store.GetContext("delta")
		if err != nil {
			t.Fatalf("failed to get context: %v", err)
		}
		if got.Server != "https://delta:6443" {
			t.Errorf("got server %q", got.Server)
		}
	})

	t.Run("reuses existing cluster entry", func(t *testing.T) {
		store, _ := newTestStore(t)

		if err := store.AddContext(ClusterContext{Name: "alpha-admin", Cluster: "alpha-cluster", CredentialsRef: "bravo-user"}); err != nil {
			t.Fatalf("failed to add context: %v", err)
		}

		got, err := store.GetContext("alpha-admin")
		if err != nil {
			t.Fatalf("failed to get context: %v", err)
		}
		if got.Server != "https://alpha:6443" {
			t.Errorf("got server %q", got.Server)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.AddContext(ClusterContext{Name: "alpha", Server: "https://x", CredentialsRef: "alpha-user"})
		if !errors.Is(err, util.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("unknown credentials", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.AddContext(ClusterContext{Name: "echo", Server: "https://echo:6443", CredentialsRef: "nobody"})
		var notFound *util.NotFoundError
		if !errors.As(err, &notFound) || notFound.Kind != "credentials" {
			t.Fatalf("expected credentials NotFoundError, got %v", err)
		}
	})

	t.Run("missing server for new cluster", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.AddContext(ClusterContext{Name: "foxtrot", CredentialsRef: "alpha-user"})
		if !errors.Is(err, util.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestKubeconfigStore_RESTConfig(t *testing.T) {
	store, _ := newTestStore(t)

	restConfig, err := store.RESTConfig("alpha")
	if err != nil {
		t.Fatalf("failed to build rest config: %v", err)
	}
	if restConfig.Host != "https://alpha:6443" {
		t.Errorf("got host %q", restConfig.Host)
	}
	if restConfig.BearerToken != "alpha-token" {
		t.Errorf("got token %q", restConfig.BearerToken)
	}

	if _, err := store.RESTConfig("zulu"); !util.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestKubeconfigStore_SeesExternalEdits(t *testing.T) {
	store, path := newTestStore(t)

	cfg := testKubeconfig()
	cfg.CurrentContext = "alpha"
	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		t.Fatalf("failed to rewrite kubeconfig: %v", err)
	}

	name, err := store.CurrentName()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "alpha" {
		t.Errorf("got %q, want alpha after external edit", name)
	}
}

func TestKubeconfigStore_MergedFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")

	cfg := testKubeconfig()
	one := api.NewConfig()
	one.CurrentContext = "alpha"
	one.Clusters["alpha-cluster"] = cfg.Clusters["alpha-cluster"]
	one.AuthInfos["alpha-user"] = cfg.AuthInfos["alpha-user"]
	one.Contexts["alpha"] = cfg.Contexts["alpha"]

	two := api.NewConfig()
	two.Clusters["bravo-cluster"] = cfg.Clusters["bravo-cluster"]
	two.AuthInfos["bravo-user"] = cfg.AuthInfos["bravo-user"]
	two.Contexts["bravo"] = cfg.Contexts["bravo"]

	if err := clientcmd.WriteToFile(*one, first); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}
	if err := clientcmd.WriteToFile(*two, second); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}

	t.Setenv("KUBECONFIG", first+string(filepath.ListSeparator)+second)
	store := NewKubeconfigStore("", nil)

	contexts, err := store.ListContexts()
	if err != nil {
		t.Fatalf("failed to list contexts: %v", err)
	}
	if len(contexts) != 2 {
		t.Fatalf("got %d contexts, want 2", len(contexts))
	}

	if err := store.SetCurrent("bravo"); err != nil {
		t.Fatalf("failed to set current: %v", err)
	}
	if name, _ := store.CurrentName(); name != "bravo" {
		t.Errorf("got %q, want bravo", name)
	}

	if err := store.RemoveContext("alpha"); err != nil {
		t.Fatalf("failed to remove alpha: %v", err)
	}
	onDisk, err := clientcmd.LoadFromFile(first)
	if err != nil {
		t.Fatalf("failed to reload first file: %v", err)
	}
	if _, ok := onDisk.Contexts["alpha"]; ok {
		t.Error("alpha still present in its origin file")
	}
}

func TestKubeconfigStore_ConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrent kubeconfig test in short mode")
	}

	cfg := api.NewConfig()
	for i := 1; i <= 10; i++ {
		name := fmt.Sprintf("cluster-%d", i)
		cfg.Clusters[name] = &api.Cluster{Server: fmt.Sprintf("https://cluster%d.example.com:6443", i)}
		cfg.AuthInfos[name] = &api.AuthInfo{Token: fmt.Sprintf("token-%d", i)}
		cfg.Contexts[name] = &api.Context{Cluster: name, AuthInfo: name}
	}
	cfg.CurrentContext = "cluster-1"
	store, _ := writeTestStore(t, cfg)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			name := fmt.Sprintf("cluster-%d", id%10+1)
			if id%4 == 0 {
				if err := store.SetCurrent(name); err != nil {
					t.Errorf("goroutine %d: set current: %v", id, err)
				}
				return
			}

			contexts, err := store.ListContexts()
			if err != nil {
				t.Errorf("goroutine %d: list contexts: %v", id, err)
				return
			}
			if len(contexts) != 10 {
				t.Errorf("goroutine %d: expected 10 contexts, got %d", id, len(contexts))
			}
			if _, err := store.RESTConfig(name); err != nil {
				t.Errorf("goroutine %d: rest config for %s: %v", id, name, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestExpandPath(t *testing.T) {
	t.Setenv("FLEETDECK_TEST_DIR", "/from/env")

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, got string)
	}{
		{
			name:  "expand tilde",
			input: "~/test/path",
			check: func(t *testing.T, got string) {
				if !filepath.IsAbs(got) {
					t.Errorf("expected absolute path, got %q", got)
				}
			},
		},
		{
			name:  "environment variable",
			input: "$FLEETDECK_TEST_DIR/config",
			check: func(t *testing.T, got string) {
				if got != "/from/env/config" {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:  "cleans path",
			input: "/a/b/../c",
			check: func(t *testing.T, got string) {
				if got != "/a/c" {
					t.Errorf("got %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func newTestStore(t *testing.T) (*KubeconfigStore, string) {
	t.Helper()
	return writeTestStore(t, testKubeconfig())
}

func writeTestStore(t *testing.T, cfg *api.Config) (*KubeconfigStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config")
	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		t.Fatalf("failed to write test kubeconfig: %v", err)
	}

	return NewKubeconfigStore(path, nil), path
}

// testKubeconfig has three contexts with bravo current
func testKubeconfig() *api.Config {
	return &api.Config{
		CurrentContext: "bravo",
		Clusters: map[string]*api.Cluster{
			"alpha-cluster":   {Server: "https://alpha:6443"},
			"bravo-cluster":   {Server: "https://bravo:6443"},
			"charlie-cluster": {Server: "https://charlie:6443"},
		},
		Contexts: map[string]*api.Context{
			"alpha":   {Cluster: "alpha-cluster", AuthInfo: "alpha-user"},
			"bravo":   {Cluster: "bravo-cluster", AuthInfo: "bravo-user", Namespace: "shop"},
			"charlie": {Cluster: "charlie-cluster", AuthInfo: "charlie-user", Namespace: "ops"},
		},
		AuthInfos: map[string]*api.AuthInfo{
			"alpha-user":   {Token: "alpha-token"},
			"bravo-user":   {Token: "bravo-token"},
			"charlie-user": {Token: "charlie-token"},
		},
	}
}

func TestKubeconfigStore_ClearCurrent(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.ClearCurrent(); err != nil {
		t.Fatalf("failed to clear current: %v", err)
	}

	onDisk, err := clientcmd.LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to reload kubeconfig: %v", err)
	}
	if onDisk.CurrentContext != "" {
		t.Errorf("current-context still %q", onDisk.CurrentContext)
	}
	if len(onDisk.Contexts) != 3 {
		t.Errorf("contexts changed: %d", len(onDisk.Contexts))
	}

	// clearing again is a no-op
	if err := store.ClearCurrent(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}
