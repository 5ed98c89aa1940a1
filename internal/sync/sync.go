// Package sync runs the dotsync synchronization sequence against a repository:
// stage and commit local changes, rebase onto the remote, update submodules
// and push. Stages run strictly in order and the first failure ends the run.
package sync

import (
	"context"
	"fmt"

	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/notify"
)

// Stage names one step of the sync sequence
type Stage string

// Sync stages, in execution order
const (
	StageStatus          Stage = "status"
	StageAdd             Stage = "add"
	StageRestatus        Stage = "restatus"
	StageCommit          Stage = "commit"
	StagePull            Stage = "pull"
	StageSubmoduleInit   Stage = "submodule-init"
	StageSubmoduleUpdate Stage = "submodule-update"
	StagePush            Stage = "push"
)

// AllStages returns every stage in execution order
func AllStages() []Stage {
	return []Stage{
		StageStatus,
		StageAdd,
		StageRestatus,
		StageCommit,
		StagePull,
		StageSubmoduleInit,
		StageSubmoduleUpdate,
		StagePush,
	}
}

// State is the progress of a single stage
type State int

// Stage states
const (
	StateStarted State = iota
	StateDone
	StateFailed
	StateSkipped
)

// Event reports a stage changing state. Err is set for StateFailed.
type Event struct {
	Stage Stage
	State State
	Err   error
}

// StageError reports which stage ended a sync and why
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Repository is the set of git operations a sync drives
type Repository interface {
	Status(ctx context.Context) ([]git.StatusEntry, error)
	Add(ctx context.Context, entries []git.StatusEntry) ([]git.StatusEntry, error)
	Commit(ctx context.Context, entries []git.StatusEntry) error
	Pull(ctx context.Context) error
	SubmodulesInit(ctx context.Context) error
	SubmodulesUpdate(ctx context.Context) error
	Push(ctx context.Context) error
}

// Logger is the logging surface the orchestrator needs
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Options configures an Orchestrator
type Options struct {
	// Notify enables notifications on failed syncs
	Notify bool
	// Progress, when set, receives an Event for every stage transition
	Progress func(Event)
}

// Result describes a finished sync
type Result struct {
	// Stages lists the stages that completed, in order
	Stages []Stage
	// Staged are the entries passed to git add
	Staged []git.StatusEntry
	// Committed are the entries described in the commit message
	Committed []git.StatusEntry
	// Unmerged are the entries left for manual conflict resolution
	Unmerged []git.StatusEntry
}

// Orchestrator runs the sync sequence
type Orchestrator struct {
	repo     Repository
	notifier notify.Notifier
	logger   Logger
	progress func(Event)
}

// New creates an Orchestrator. The notifier is only used when opts.Notify is set.
func New(repo Repository, notifier notify.Notifier, logger Logger, opts Options) *Orchestrator {
	if !opts.Notify || notifier == nil {
		notifier = notify.Disabled{}
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(Event) {}
	}
	return &Orchestrator{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		progress: progress,
	}
}

// Run performs one sync. On failure the returned error is a *StageError and
// the result lists the stages that completed before it. Nothing is rolled
// back: a commit that fails to push stays committed locally.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	o.progress(Event{Stage: StageStatus, State: StateStarted})
	entries, err := o.repo.Status(ctx)
	if err != nil {
		return res, o.fail(StageStatus, err)
	}
	o.done(res, StageStatus)

	if len(entries) > 0 {
		if err := o.commitLocal(ctx, res, entries); err != nil {
			return res, err
		}
	} else {
		o.logger.Debug("no local changes")
		o.skip(StageAdd, StageRestatus, StageCommit)
	}

	steps := []struct {
		stage Stage
		msg   string
		run   func(context.Context) error
	}{
		{StagePull, "Pulling remote changes...", o.repo.Pull},
		{StageSubmoduleInit, "Initializing submodules...", o.repo.SubmodulesInit},
		{StageSubmoduleUpdate, "Updating submodules...", o.repo.SubmodulesUpdate},
		{StagePush, "Pushing to remote...", o.repo.Push},
	}
	for _, s := range steps {
		o.logger.Debug(s.msg)
		o.progress(Event{Stage: s.stage, State: StateStarted})
		if err := s.run(ctx); err != nil {
			return res, o.fail(s.stage, err)
		}
		o.done(res, s.stage)
	}

	o.logger.Info("Synchronized %d local change(s).", len(res.Committed))
	return res, nil
}

// commitLocal stages entries, re-reads the status and commits what can be committed.
func (o *Orchestrator) commitLocal(ctx context.Context, res *Result, entries []git.StatusEntry) error {
	o.logger.Debug("staging %d local change(s)", len(entries))
	res.Unmerged = git.Unmerged(entries)

	o.progress(Event{Stage: StageAdd, State: StateStarted})
	staged, err := o.repo.Add(ctx, entries)
	res.Staged = staged
	if err != nil {
		return o.fail(StageAdd, err)
	}
	o.done(res, StageAdd)

	// Staging can change what git reports (line ending normalization,
	// files reverted to their committed content), so ask again.
	o.progress(Event{Stage: StageRestatus, State: StateStarted})
	entries, err = o.repo.Status(ctx)
	if err != nil {
		return o.fail(StageRestatus, err)
	}
	o.done(res, StageRestatus)

	committable := git.Committable(entries)
	if len(committable) == 0 {
		o.logger.Debug("nothing left to commit after staging")
		o.skip(StageCommit)
		return nil
	}

	o.progress(Event{Stage: StageCommit, State: StateStarted})
	if err := o.repo.Commit(ctx, committable); err != nil {
		return o.fail(StageCommit, err)
	}
	res.Committed = committable
	o.done(res, StageCommit)
	return nil
}

func (o *Orchestrator) done(res *Result, stage Stage) {
	res.Stages = append(res.Stages, stage)
	o.progress(Event{Stage: stage, State: StateDone})
}

func (o *Orchestrator) skip(stages ...Stage) {
	for _, stage := range stages {
		o.progress(Event{Stage: stage, State: StateSkipped})
	}
}

func (o *Orchestrator) fail(stage Stage, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	o.progress(Event{Stage: stage, State: StateFailed, Err: err})
	o.notifier.Notify(fmt.Sprintf("dotsync: %s failed", stage), err.Error())
	return stageErr
}
