package runner_test

import (
	"context"
	"fmt"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher/revcheck/internal/output"
	"github.com/rancher/revcheck/internal/pipeline"
	"github.com/rancher/revcheck/internal/revision"
	"github.com/rancher/revcheck/internal/runner"
)

type fakeRepo struct {
	branch      string
	onBranch    bool
	head        string
	dirty       bool
	checkouts   []string
	current     string
	checkoutErr map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{branch: "main", onBranch: true, head: "headsha", current: "main"}
}

func (f *fakeRepo) CurrentBranch(context.Context) (string, bool, error) {
	return f.branch, f.onBranch, nil
}

func (f *fakeRepo) Head(context.Context) (string, error) {
	return f.head, nil
}

func (f *fakeRepo) IsDirty(context.Context) (bool, error) {
	return f.dirty, nil
}

func (f *fakeRepo) Checkout(_ context.Context, ref string) error {
	if err := f.checkoutErr[ref]; err != nil {
		return err
	}
	f.checkouts = append(f.checkouts, ref)
	f.current = ref
	return nil
}

func (f *fakeRepo) ResolveCommit(_ context.Context, start string) (string, error) {
	return start, nil
}

func (f *fakeRepo) RevList(context.Context, ...string) ([]string, error) {
	return nil, nil
}

// fakeCommands records executed commands as "<checked-out-ref>:<command>" and
// fails those listed in failures.
type fakeCommands struct {
	repo     *fakeRepo
	executed []string
	failures map[string]int
	startErr map[string]error
}

func (f *fakeCommands) Run(_ context.Context, _ string, command string) (int, error) {
	key := f.repo.current + ":" + command
	if err := f.startErr[key]; err != nil {
		return 0, err
	}
	f.executed = append(f.executed, key)
	if code, ok := f.failures[key]; ok {
		return code, nil
	}
	return 0, nil
}

var _ = Describe("Runner", func() {
	var (
		ctx      context.Context
		repo     *fakeRepo
		commands *fakeCommands
		printer  *output.Printer
		cfg      runner.Config
		spec     pipeline.Spec
	)

	revs := func(shas ...string) []revision.Revision {
		out := make([]revision.Revision, 0, len(shas))
		for _, sha := range shas {
			out = append(out, revision.Revision(sha))
		}
		return out
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = newFakeRepo()
		commands = &fakeCommands{repo: repo}
		printer = output.NewPrinter(io.Discard, io.Discard)
		cfg = runner.Config{}
		spec = pipeline.Spec{Name: "test", Commands: []string{"c1", "c2"}}
	})

	newRunner := func() *runner.Runner {
		return runner.New(cfg, repo, commands, nil, printer, nil)
	}

	It("runs every command on every revision and restores the original branch", func() {
		result, err := newRunner().Run(ctx, revs("r1", "r2"), spec)
		Expect(err).NotTo(HaveOccurred())

		Expect(commands.executed).To(Equal([]string{"r1:c1", "r1:c2", "r2:c1", "r2:c2"}))
		Expect(result.Revisions).To(HaveLen(2))
		Expect(result.Revisions[0].Status).To(Equal(runner.RevisionStatusPassed))
		Expect(result.Revisions[1].Status).To(Equal(runner.RevisionStatusPassed))
		Expect(result.OriginalRef).To(Equal("main"))

		// Success path also restores: the last checkout is the original ref.
		Expect(repo.checkouts).To(Equal([]string{"r1", "r2", "main"}))
	})

	It("stops everything at the first failing command", func() {
		commands.failures = map[string]int{"r2:c1": 101}

		result, err := newRunner().Run(ctx, revs("r1", "r2", "r3"), spec)
		Expect(err).To(HaveOccurred())
		Expect(output.GetExitCode(err)).To(Equal(output.ExitCommandFailed))

		Expect(commands.executed).To(Equal([]string{"r1:c1", "r1:c2", "r2:c1"}))
		Expect(result.Revisions).To(HaveLen(3))
		Expect(result.Revisions[0].Status).To(Equal(runner.RevisionStatusPassed))
		Expect(result.Revisions[1].Status).To(Equal(runner.RevisionStatusFailed))
		Expect(result.Revisions[1].FailedCommand).To(Equal("c1"))
		Expect(result.Revisions[1].ExitCode).To(Equal(101))
		Expect(result.Revisions[2].Status).To(Equal(runner.RevisionStatusNotEvaluated))

		Expect(repo.current).To(Equal("main"))
	})

	It("restores the detached SHA when not on a branch", func() {
		repo.onBranch = false
		repo.current = "headsha"

		result, err := newRunner().Run(ctx, revs("r1"), spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.OriginalRef).To(Equal("headsha"))
		Expect(repo.checkouts).To(Equal([]string{"r1", "headsha"}))
	})

	It("never checks out when the tree is dirty", func() {
		cfg.Dirty = true

		result, err := newRunner().Run(ctx, []revision.Revision{revision.Current}, spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.checkouts).To(BeEmpty())
		Expect(commands.executed).To(Equal([]string{"main:c1", "main:c2"}))
		Expect(result.Revisions[0].Revision.IsCurrent()).To(BeTrue())
	})

	It("maps a checkout failure to an unexpected exit", func() {
		repo.checkoutErr = map[string]error{"r2": fmt.Errorf("boom")}

		result, err := newRunner().Run(ctx, revs("r1", "r2"), spec)
		Expect(err).To(HaveOccurred())
		Expect(output.GetExitCode(err)).To(Equal(output.ExitUnexpected))
		Expect(result.Revisions[1].Status).To(Equal(runner.RevisionStatusCheckoutFail))

		Expect(repo.current).To(Equal("main"))
	})

	It("maps a command that cannot start to an unexpected exit", func() {
		commands.startErr = map[string]error{"r1:c1": fmt.Errorf("sh not found")}

		_, err := newRunner().Run(ctx, revs("r1"), spec)
		Expect(err).To(HaveOccurred())
		Expect(output.GetExitCode(err)).To(Equal(output.ExitUnexpected))
		Expect(repo.current).To(Equal("main"))
	})

	It("rejects a pipeline with no commands", func() {
		spec.Commands = nil

		_, err := newRunner().Run(ctx, revs("r1"), spec)
		Expect(err).To(HaveOccurred())
		Expect(output.GetExitCode(err)).To(Equal(output.ExitUnexpected))
		Expect(repo.checkouts).To(BeEmpty())
	})

	It("prints the plan without side effects in dry-run mode", func() {
		cfg.DryRun = true

		result, err := newRunner().Run(ctx, revs("r1", "r2"), spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.checkouts).To(BeEmpty())
		Expect(commands.executed).To(BeEmpty())
		Expect(result.Revisions[0].Status).To(Equal(runner.RevisionStatusDryRun))
		Expect(result.Revisions[1].Status).To(Equal(runner.RevisionStatusDryRun))
	})

	It("is idempotent across repeated runs on the same revision", func() {
		_, err := newRunner().Run(ctx, revs("r1"), spec)
		Expect(err).NotTo(HaveOccurred())
		_, err = newRunner().Run(ctx, revs("r1"), spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.current).To(Equal("main"))
	})
})
