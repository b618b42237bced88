package app

import (
	"context"
	"errors"
	"strings"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/effects"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/ports/secondary"
)

// mockContainers implements secondary.ContainerAdapter over an in-memory data directory.
type mockContainers struct {
	running   map[string]bool
	folders   map[string]bool // absolute paths
	lsExit    int
	rmFail    bool
	resolveFn func(pattern string) (string, error)
	execCalls [][]string
}

func newMockContainers() *mockContainers {
	return &mockContainers{running: map[string]bool{"app-1": true}, folders: map[string]bool{}}
}

func (m *mockContainers) Resolve(ctx context.Context, pattern string) (string, error) {
	if m.resolveFn != nil {
		return m.resolveFn(pattern)
	}
	if m.running[pattern] {
		return pattern, nil
	}
	for name, up := range m.running {
		if up && strings.HasPrefix(name, strings.TrimSuffix(pattern, "*")) {
			return name, nil
		}
	}
	return "", nil
}

func (m *mockContainers) ListMatching(ctx context.Context, pattern string) ([]string, error) {
	return nil, nil
}

func (m *mockContainers) IsRunning(ctx context.Context, name string) (bool, error) {
	return m.running[name], nil
}

func (m *mockContainers) Exec(ctx context.Context, name string, argv ...string) (*secondary.ExecResult, error) {
	m.execCalls = append(m.execCalls, argv)
	switch argv[0] {
	case "ls":
		if m.lsExit != 0 {
			return &secondary.ExecResult{ExitCode: m.lsExit, Stderr: "No such file or directory"}, nil
		}
		dir := argv[len(argv)-1]
		var names []string
		for p := range m.folders {
			if strings.HasPrefix(p, dir+"/") {
				names = append(names, strings.TrimPrefix(p, dir+"/"))
			}
		}
		return &secondary.ExecResult{Stdout: strings.Join(names, "\n") + "\n"}, nil
	case "test":
		if m.folders[argv[len(argv)-1]] {
			return &secondary.ExecResult{}, nil
		}
		return &secondary.ExecResult{ExitCode: 1}, nil
	case "rm":
		if m.rmFail {
			return &secondary.ExecResult{ExitCode: 1, Stderr: "permission denied"}, nil
		}
		delete(m.folders, argv[len(argv)-1])
		return &secondary.ExecResult{}, nil
	}
	return nil, errors.New("unexpected command " + argv[0])
}

// mockStore implements secondary.TenantStore with in-memory tables.
type mockStore struct {
	databases     []string
	current       string
	settingsCols  map[string]bool // column names present on the settings table
	settings      []string
	owners        map[string]string // lower name -> id
	relatedTables []string
	dropErr       map[string]error
	ownerNamesErr error
	writes        []string
}

func newMockStore() *mockStore {
	return &mockStore{
		settingsCols: map[string]bool{"client": true},
		owners:       map[string]string{},
		dropErr:      map[string]error{},
	}
}

func (m *mockStore) ListDatabases(ctx context.Context) ([]string, error) { return m.databases, nil }

func (m *mockStore) CurrentDatabase(ctx context.Context) (string, error) { return m.current, nil }

func (m *mockStore) DropDatabase(ctx context.Context, name string) error {
	m.writes = append(m.writes, "drop:"+name)
	return m.dropErr[name]
}

func (m *mockStore) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	return m.settingsCols[column], nil
}

func (m *mockStore) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	return m.settings, nil
}

func (m *mockStore) CountCI(ctx context.Context, table, column, value string) (int, error) {
	n := 0
	for _, s := range m.settings {
		if strings.EqualFold(s, value) {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) DeleteCI(ctx context.Context, table, column, value string) (int64, error) {
	m.writes = append(m.writes, "delete_ci:"+table+":"+value)
	return 1, nil
}

func (m *mockStore) OwnerNames(ctx context.Context, join secondary.OwnerJoin) ([]string, error) {
	var names []string
	for n := range m.owners {
		names = append(names, n)
	}
	return names, m.ownerNamesErr
}

func (m *mockStore) FindOwnerID(ctx context.Context, table, nameColumn, name string) (string, bool, error) {
	id, ok := m.owners[strings.ToLower(name)]
	return id, ok, nil
}

func (m *mockStore) TablesWithColumn(ctx context.Context, column string) ([]string, error) {
	return m.relatedTables, nil
}

func (m *mockStore) DeleteWhere(ctx context.Context, table, column, value string) (int64, error) {
	m.writes = append(m.writes, "delete:"+table+":"+column+"="+value)
	return 1, nil
}

// mockSelector implements secondary.Selector.
type mockSelector struct {
	choice  string
	called  bool
	offered []string
}

func (m *mockSelector) Select(ctx context.Context, candidates []string) (string, error) {
	m.called = true
	m.offered = candidates
	return m.choice, nil
}

// mockPrompter implements secondary.Prompter with scripted answers.
type mockPrompter struct {
	answers []string
	asked   []string
}

func (m *mockPrompter) Ask(ctx context.Context, question string) (string, error) {
	m.asked = append(m.asked, question)
	if len(m.answers) == 0 {
		return "", nil
	}
	a := m.answers[0]
	m.answers = m.answers[1:]
	return a, nil
}

// spyExecutor records whether any destructive step was requested.
type spyExecutor struct {
	calls   int
	effects []effects.Effect
}

func (s *spyExecutor) Execute(ctx context.Context, effs []effects.Effect) *primary.ExecutionReport {
	s.calls++
	s.effects = effs
	report := &primary.ExecutionReport{}
	for _, e := range effs {
		report.Steps = append(report.Steps, primary.StepResult{Effect: e})
	}
	return report
}

func testNukeConfig() config.NukeConfig {
	return config.NukeConfig{
		Enabled:         true,
		Container:       "app-1",
		DataDir:         "/data/clients",
		SettingsTable:   "settings",
		SettingsColumn:  "client",
		OwnerTable:      "clients",
		OwnerNameColumn: "name",
	}
}
