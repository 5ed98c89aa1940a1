package sync_test

import (
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "dotsync.dev/dotsync/internal/errors"
	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/sync"
	"dotsync.dev/dotsync/testhelpers"
)

type fixture struct {
	runner        *testhelpers.FakeRunner
	notifications *testhelpers.Recorder
	logs          *testhelpers.LogRecorder
	repo          *git.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	f := &fixture{
		runner:        testhelpers.NewFakeRunner(),
		notifications: &testhelpers.Recorder{},
		logs:          &testhelpers.LogRecorder{},
	}
	f.repo, err = git.Open(dir, "host",
		git.WithRunner(f.runner),
		git.WithNotifier(f.notifications),
		git.WithLogger(f.logs),
		git.WithClock(func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return f
}

func (f *fixture) run(t *testing.T, notify bool) (*sync.Result, error) {
	t.Helper()
	return sync.New(f.repo, f.notifications, f.logs, sync.Options{Notify: notify}).Run(t.Context())
}

func TestRunCleanTree(t *testing.T) {
	f := newFixture(t)

	res, err := f.run(t, true)
	require.NoError(t, err)

	require.Equal(t, []string{
		"status --porcelain -z",
		"pull origin --rebase --autostash",
		"submodule init",
		"submodule update",
		"push origin",
	}, f.runner.Lines())
	require.Equal(t, []sync.Stage{
		sync.StageStatus,
		sync.StagePull,
		sync.StageSubmoduleInit,
		sync.StageSubmoduleUpdate,
		sync.StagePush,
	}, res.Stages)
	require.Empty(t, res.Committed)
	require.Empty(t, f.notifications.Notifications())
}

func TestRunWithLocalChanges(t *testing.T) {
	f := newFixture(t)
	f.runner.On("status",
		testhelpers.Ok(" M .zshrc\x00?? notes.md\x00"),
		testhelpers.Ok("M  .zshrc\x00A  notes.md\x00"),
	)

	res, err := f.run(t, true)
	require.NoError(t, err)

	require.Equal(t, []string{
		"status --porcelain -z",
		"add .zshrc",
		"add notes.md",
		"status --porcelain -z",
		"commit --file -",
		"pull origin --rebase --autostash",
		"submodule init",
		"submodule update",
		"push origin",
	}, f.runner.Lines())

	calls := f.runner.Calls()
	require.Equal(t,
		"dotsync: host 2026-05-01T12:00:00Z\n\nM  .zshrc\nA  notes.md\n",
		calls[4].Stdin)

	require.Len(t, res.Staged, 2)
	require.Len(t, res.Committed, 2)
	require.Contains(t, f.logs.Lines, "info: Synchronized 2 local change(s).")
}

func TestRunNeverCommitsUnmerged(t *testing.T) {
	f := newFixture(t)
	f.runner.On("status",
		testhelpers.Ok("UU conflicted\x00 M clean\x00"),
		testhelpers.Ok("UU conflicted\x00M  clean\x00"),
	)

	res, err := f.run(t, true)
	require.NoError(t, err)

	require.Equal(t, 1, f.runner.Count("add"))
	require.Contains(t, f.runner.Lines(), "add clean")
	require.NotContains(t, f.runner.Lines(), "add conflicted")

	commit := f.runner.Calls()[3]
	require.Equal(t, "commit", commit.Args[0])
	require.NotContains(t, commit.Stdin, "conflicted")
	require.Contains(t, commit.Stdin, "M  clean")

	require.Len(t, res.Unmerged, 1)
	require.Equal(t, "conflicted", res.Unmerged[0].EffectivePath())

	got := f.notifications.Notifications()
	require.Len(t, got, 1)
	require.Equal(t, "dotsync: merge conflict", got[0].Summary)
}

func TestRunSkipsCommitWhenNothingCommittable(t *testing.T) {
	f := newFixture(t)
	f.runner.On("status",
		testhelpers.Ok(" M crlf.txt\x00"),
		testhelpers.Ok(""),
	)

	res, err := f.run(t, false)
	require.NoError(t, err)
	require.Zero(t, f.runner.Count("commit"))
	require.Equal(t, 1, f.runner.Count("push"))
	require.NotContains(t, res.Stages, sync.StageCommit)
	require.Contains(t, res.Stages, sync.StageRestatus)
}

func TestRunStopsAtFailingStage(t *testing.T) {
	dirty := testhelpers.Ok(" M file\x00")

	tests := []struct {
		name    string
		script  func(r *testhelpers.FakeRunner)
		stage   sync.Stage
		invoked map[string]int
	}{
		{
			name:    "status",
			script:  func(r *testhelpers.FakeRunner) { r.On("status", testhelpers.Fail(128, "fatal")) },
			stage:   sync.StageStatus,
			invoked: map[string]int{"status": 1, "add": 0, "pull": 0, "push": 0},
		},
		{
			name: "add",
			script: func(r *testhelpers.FakeRunner) {
				r.On("status", dirty).On("add", testhelpers.Fail(1, "index.lock exists"))
			},
			stage:   sync.StageAdd,
			invoked: map[string]int{"status": 1, "add": 1, "commit": 0, "pull": 0},
		},
		{
			name: "restatus",
			script: func(r *testhelpers.FakeRunner) {
				r.On("status", dirty, testhelpers.Ok("bogus"))
			},
			stage:   sync.StageRestatus,
			invoked: map[string]int{"status": 2, "commit": 0, "pull": 0},
		},
		{
			name: "commit",
			script: func(r *testhelpers.FakeRunner) {
				r.On("status", dirty).On("commit", testhelpers.Fail(1, "hook rejected"))
			},
			stage:   sync.StageCommit,
			invoked: map[string]int{"commit": 1, "pull": 0},
		},
		{
			name:    "pull",
			script:  func(r *testhelpers.FakeRunner) { r.On("pull", testhelpers.Fail(1, "conflict")) },
			stage:   sync.StagePull,
			invoked: map[string]int{"pull": 1, "submodule": 0, "push": 0},
		},
		{
			name:    "submodule init",
			script:  func(r *testhelpers.FakeRunner) { r.On("submodule init", testhelpers.Fail(1, "bad .gitmodules")) },
			stage:   sync.StageSubmoduleInit,
			invoked: map[string]int{"submodule": 1, "push": 0},
		},
		{
			name:    "submodule update",
			script:  func(r *testhelpers.FakeRunner) { r.On("submodule update", testhelpers.Fail(1, "unreachable")) },
			stage:   sync.StageSubmoduleUpdate,
			invoked: map[string]int{"submodule": 2, "push": 0},
		},
		{
			name:    "push",
			script:  func(r *testhelpers.FakeRunner) { r.On("push", testhelpers.Fail(1, "rejected")) },
			stage:   sync.StagePush,
			invoked: map[string]int{"push": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.script(f.runner)

			res, err := f.run(t, true)
			require.Error(t, err)

			var stageErr *sync.StageError
			require.ErrorAs(t, err, &stageErr)
			require.Equal(t, tt.stage, stageErr.Stage)
			require.NotContains(t, res.Stages, tt.stage)

			for sub, n := range tt.invoked {
				assert.Equal(t, n, f.runner.Count(sub), "calls to %s", sub)
			}

			got := f.notifications.Notifications()
			require.NotEmpty(t, got)
			last := got[len(got)-1]
			require.Equal(t, "dotsync: "+string(tt.stage)+" failed", last.Summary)
		})
	}
}

func TestRunErrorKinds(t *testing.T) {
	t.Run("parser failure", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("status", testhelpers.Ok("?? dangling"))

		_, err := f.run(t, false)
		require.ErrorIs(t, err, dserrors.ErrParser)
	})

	t.Run("command failure keeps git output", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("push", testhelpers.Fail(1, "! [rejected] main -> main (fetch first)"))

		_, err := f.run(t, false)
		require.ErrorIs(t, err, dserrors.ErrCommandFailed)
		require.Contains(t, err.Error(), "push failed")
	})
}

func TestRunNotificationsDisabled(t *testing.T) {
	f := newFixture(t)
	f.runner.On("pull", testhelpers.Fail(1, "conflict"))

	_, err := f.run(t, false)
	require.Error(t, err)
	require.Empty(t, f.notifications.Notifications())
}

func TestRunReportsProgress(t *testing.T) {
	collect := func(t *testing.T, f *fixture) ([]sync.Event, error) {
		var events []sync.Event
		_, err := sync.New(f.repo, f.notifications, f.logs, sync.Options{
			Progress: func(e sync.Event) { events = append(events, e) },
		}).Run(t.Context())
		return events, err
	}
	states := func(events []sync.Event) []string {
		out := make([]string, len(events))
		names := map[sync.State]string{
			sync.StateStarted: "started",
			sync.StateDone:    "done",
			sync.StateFailed:  "failed",
			sync.StateSkipped: "skipped",
		}
		for i, e := range events {
			out[i] = string(e.Stage) + " " + names[e.State]
		}
		return out
	}

	t.Run("clean tree skips the local stages", func(t *testing.T) {
		f := newFixture(t)
		events, err := collect(t, f)
		require.NoError(t, err)
		require.Equal(t, []string{
			"status started", "status done",
			"add skipped", "restatus skipped", "commit skipped",
			"pull started", "pull done",
			"submodule-init started", "submodule-init done",
			"submodule-update started", "submodule-update done",
			"push started", "push done",
		}, states(events))
	})

	t.Run("failure ends the events", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("status", testhelpers.Ok(" M a\x00")).On("commit", testhelpers.Fail(1, "hook"))

		events, err := collect(t, f)
		require.Error(t, err)
		require.Equal(t, []string{
			"status started", "status done",
			"add started", "add done",
			"restatus started", "restatus done",
			"commit started", "commit failed",
		}, states(events))
		require.ErrorIs(t, events[len(events)-1].Err, dserrors.ErrCommandFailed)
	})

	t.Run("stage order", func(t *testing.T) {
		require.Equal(t, sync.StageStatus, sync.AllStages()[0])
		require.Equal(t, sync.StagePush, sync.AllStages()[len(sync.AllStages())-1])
	})
}
