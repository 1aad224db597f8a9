package cluster

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/aryankumar/fleetdeck/internal/util"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory ContextStore that records every mutation
type memStore struct {
	mu       sync.Mutex
	contexts map[string]config.ClusterContext
	current  string

	setCalls   []string
	clearCalls int
}

func newMemStore(current string, names ...string) *memStore {
	s := &memStore{contexts: make(map[string]config.ClusterContext), current: current}
	for _, name := range names {
		s.contexts[name] = config.ClusterContext{
			Name:      name,
			Cluster:   name + "-cluster",
			Server:    "https://" + name + ".example.com:6443",
			Namespace: "default",
		}
	}
	return s
}

func (s *memStore) ListContexts() ([]config.ClusterContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]config.ClusterContext, 0, len(s.contexts))
	for _, cc := range s.contexts {
		cc.Current = cc.Name == s.current
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) GetContext(name string) (config.ClusterContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc, ok := s.contexts[name]
	if !ok {
		return config.ClusterContext{}, util.NewContextNotFound(name)
	}
	cc.Current = name == s.current
	return cc, nil
}

func (s *memStore) CurrentName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

func (s *memStore) SetCurrent(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contexts[name]; !ok {
		return util.NewContextNotFound(name)
	}
	s.setCalls = append(s.setCalls, name)
	s.current = name
	return nil
}

func (s *memStore) ClearCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	s.current = ""
	return nil
}

func (s *memStore) AddContext(cc config.ClusterContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contexts[cc.Name]; ok {
		return fmt.Errorf("context %q: %w", cc.Name, util.ErrAlreadyExists)
	}
	s.contexts[cc.Name] = cc
	return nil
}

func (s *memStore) RemoveContext(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contexts[name]; !ok {
		return util.NewContextNotFound(name)
	}
	if name == s.current {
		return &util.InUseError{Context: name}
	}
	delete(s.contexts, name)
	return nil
}

func (s *memStore) RESTConfig(name string) (*rest.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc, ok := s.contexts[name]
	if !ok {
		return nil, util.NewContextNotFound(name)
	}
	return &rest.Config{Host: cc.Server}, nil
}

func (s *memStore) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.setCalls...)
}

// fakeFactory hands out one fake clientset per context
type fakeFactory struct {
	mu      sync.Mutex
	clients map[string]*fake.Clientset
	failing map[string]error
	built   []string
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		clients: make(map[string]*fake.Clientset),
		failing: make(map[string]error),
	}
}

// seed registers a cluster with the given node count. Each cluster gets one
// pod per node and nodes+1 namespaces so counts identify the context.
func (f *fakeFactory) seed(contextName string, nodes int) *fake.Clientset {
	objects := make([]runtime.Object, 0)
	for i := 0; i < nodes; i++ {
		objects = append(objects,
			&corev1.Node{
				ObjectMeta: metav1.ObjectMeta{Name: fmt.Sprintf("%s-node-%d", contextName, i)},
				Status: corev1.NodeStatus{
					NodeInfo: corev1.NodeSystemInfo{KubeletVersion: "v1.33." + fmt.Sprint(nodes)},
				},
			},
			&corev1.Pod{ObjectMeta: metav1.ObjectMeta{
				Name:      fmt.Sprintf("%s-pod-%d", contextName, i),
				Namespace: "default",
			}},
		)
	}
	for i := 0; i <= nodes; i++ {
		objects = append(objects, &corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{Name: fmt.Sprintf("ns-%d", i)},
		})
	}

	client := fake.NewSimpleClientset(objects...)
	f.mu.Lock()
	f.clients[contextName] = client
	f.mu.Unlock()
	return client
}

func (f *fakeFactory) NewClientsets(contextName string, _ *rest.Config) (*Clientsets, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.built = append(f.built, contextName)
	if err := f.failing[contextName]; err != nil {
		return nil, err
	}
	client, ok := f.clients[contextName]
	if !ok {
		client = fake.NewSimpleClientset()
		f.clients[contextName] = client
	}
	return &Clientsets{Kube: client}, nil
}

func (f *fakeFactory) fail(contextName string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[contextName] = err
}

// newTestSession wires a session over a memStore and fakeFactory
func newTestSession(store *memStore, factory *fakeFactory) *Session {
	logger := discardLogger()
	facade := NewFacade(store, WithClientFactory(factory), WithLogger(logger))
	orchestrator := NewOrchestrator(store, facade, 0, 0, logger)
	return NewSession(store, facade, orchestrator, logger)
}
