package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/glitch452/easy-npm-publish/internal/commit"
	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/glitch452/easy-npm-publish/internal/publish"
	"github.com/glitch452/easy-npm-publish/internal/registry"
	"github.com/glitch452/easy-npm-publish/internal/release"
)

// Compile-time interface verification.
var (
	_ Repository     = (*mockRepo)(nil)
	_ Registry       = (*mockRegistry)(nil)
	_ Publisher      = (*mockPublisher)(nil)
	_ ReleaseService = (*mockReleases)(nil)
	_ OutputWriter   = (*mockOutputs)(nil)
)

// mockRepo is an in-memory repository. Tags maps tag names to commit SHAs.
type mockRepo struct {
	Head    string
	Shallow bool
	Tags    map[string]string
	History []commit.Commit

	AddTagsFn  func(ctx context.Context, target string, names []string) error
	PushTagsFn func(ctx context.Context) error
	RestoreFn  func(ctx context.Context, paths ...string) error

	mu    sync.Mutex
	calls []string
}

func (m *mockRepo) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *mockRepo) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockRepo) IsShallow(context.Context) (bool, error) {
	return m.Shallow, nil
}

func (m *mockRepo) FetchTags(context.Context) error {
	m.record("fetch-tags")
	return nil
}

func (m *mockRepo) ListTags(context.Context) ([]string, error) {
	names := make([]string, 0, len(m.Tags))
	for name := range m.Tags {
		names = append(names, name)
	}
	return names, nil
}

func (m *mockRepo) FetchShallowExclude(_ context.Context, ref string) error {
	m.record("shallow-exclude %s", ref)
	return nil
}

func (m *mockRepo) FetchDeepen(_ context.Context, n int) error {
	m.record("deepen %d", n)
	return nil
}

func (m *mockRepo) FetchUnshallow(context.Context) error {
	m.record("unshallow")
	return nil
}

func (m *mockRepo) ResolveTagSHA(_ context.Context, tag string) (string, error) {
	sha, ok := m.Tags[tag]
	if !ok {
		return "", fmt.Errorf("tag %s not found", tag)
	}
	return sha, nil
}

func (m *mockRepo) Log(_ context.Context, r history.Range) ([]commit.Commit, error) {
	m.record("log %s", r.Spec())
	return m.History, nil
}

func (m *mockRepo) HeadSHA(context.Context) (string, error) {
	return m.Head, nil
}

func (m *mockRepo) AddTags(ctx context.Context, target string, names []string) error {
	m.record("add-tags %s %v", target, names)
	if m.AddTagsFn != nil {
		return m.AddTagsFn(ctx, target, names)
	}
	return nil
}

func (m *mockRepo) PushTags(ctx context.Context) error {
	m.record("push-tags")
	if m.PushTagsFn != nil {
		return m.PushTagsFn(ctx)
	}
	return nil
}

func (m *mockRepo) Restore(ctx context.Context, paths ...string) error {
	m.record("restore")
	if m.RestoreFn != nil {
		return m.RestoreFn(ctx, paths...)
	}
	return nil
}

type mockRegistry struct {
	LatestFn func(ctx context.Context, name string) (*registry.VersionDetails, error)
}

func (m *mockRegistry) Latest(ctx context.Context, name string) (*registry.VersionDetails, error) {
	return m.LatestFn(ctx, name)
}

type mockPublisher struct {
	PublishFn func(ctx context.Context, opts publish.Options) (publish.Command, error)
	Calls     []publish.Options
}

func (m *mockPublisher) Publish(ctx context.Context, opts publish.Options) (publish.Command, error) {
	m.Calls = append(m.Calls, opts)
	if m.PublishFn != nil {
		return m.PublishFn(ctx, opts)
	}
	return publish.Command{Dir: opts.PackageDir, Name: "npm", Args: []string{"publish"}}, nil
}

type mockReleases struct {
	TitleFn  func(ctx context.Context, opts release.TitleOptions) (string, error)
	CreateFn func(ctx context.Context, r release.Release) (release.Created, error)
	Created  []release.Release
}

func (m *mockReleases) Title(ctx context.Context, opts release.TitleOptions) (string, error) {
	if m.TitleFn != nil {
		return m.TitleFn(ctx, opts)
	}
	if opts.Explicit != "" {
		return opts.Explicit, nil
	}
	return opts.Fallback, nil
}

func (m *mockReleases) Create(ctx context.Context, r release.Release) (release.Created, error) {
	m.Created = append(m.Created, r)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return release.Created{ID: 1, HTMLURL: "https://github.com/acme/widgets/releases/tag/" + r.Tag}, nil
}

type mockOutputs struct {
	Written [][]output.Pair
}

func (m *mockOutputs) Write(pairs []output.Pair) error {
	m.Written = append(m.Written, pairs)
	return nil
}
