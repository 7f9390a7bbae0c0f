package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nikola43/gogit-absorb/cmd"
	"github.com/nikola43/gogit-absorb/internal/absorb"
)

func main() {
	os.Exit(run(os.Args))
}

var errNoSubcommand = errors.New("no subcommand given")

// run builds the cobra command tree and executes it against args, the way
// the original plain dispatch did: it never lets cobra print its own
// error/usage text, so the wording and exit codes stay exactly what the
// rest of the tooling (and its tests) expect.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args[1:])

	err := root.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errNoSubcommand) {
		usage()
		return 1
	}
	if errors.Is(err, errAlreadyReported) {
		return 1
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gogit",
		Short:         "gogit is a small, self-contained version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return errNoSubcommand
		},
	}

	root.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newStatusCmd(),
		newCommitCmd(),
		newLogCmd(),
		newDiffCmd(),
		newBranchCmd(),
		newCheckoutCmd(),
		newMergeCmd(),
		newAbsorbCmd(),
		newRebaseCmd(),
	)
	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new repository",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Init()
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Add files to staging area",
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) < 1 {
				fmt.Fprintln(os.Stderr, "usage: gogit add <path>...")
				return errAlreadyReported
			}
			return cmd.Add(args)
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Status()
		},
	}
}

func newCommitCmd() *cobra.Command {
	var message string
	c := &cobra.Command{
		Use:   "commit",
		Short: "Record changes to the repository",
		RunE: func(cc *cobra.Command, args []string) error {
			if message == "" {
				fmt.Fprintln(os.Stderr, `usage: gogit commit -m "message"`)
				return errAlreadyReported
			}
			return cmd.Commit(message)
		},
	}
	c.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return c
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Log()
		},
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show changes in the working tree",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Diff()
		},
	}
}

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name]",
		Short: "List or create branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return cmd.Branch(name)
		},
	}
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Switch branches",
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(os.Stderr, "usage: gogit checkout <branch>")
				return errAlreadyReported
			}
			return cmd.Checkout(args[0])
		},
	}
}

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch",
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(os.Stderr, "usage: gogit merge <branch>")
				return errAlreadyReported
			}
			return cmd.Merge(args[0])
		},
	}
}

func newAbsorbCmd() *cobra.Command {
	var cfg absorb.Config
	var force bool
	var genCompletions string
	c := &cobra.Command{
		Use:   "absorb [-- <rebase-args>...]",
		Short: "Automatically absorb staged changes into their original commits",
		RunE: func(cc *cobra.Command, args []string) error {
			if genCompletions != "" {
				return genShellCompletions(cc.Root(), genCompletions)
			}
			if len(args) > 0 && !cfg.AndRebase {
				fmt.Fprintln(os.Stderr, "error: trailing rebase arguments require --and-rebase")
				return errAlreadyReported
			}
			cfg.RebaseArgs = args
			if force {
				cfg.ForceAuthor = true
				cfg.ForceDetach = true
			}

			log := logrus.StandardLogger()
			if cfg.Verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return cmd.Absorb(cfg, log)
		},
	}
	c.Flags().StringVar(&cfg.Base, "base", "", "use this commit as the lower bound of the stack")
	c.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "do not write any references, trees, commits, or index changes")
	c.Flags().BoolVar(&cfg.NoLimit, "no-limit", false, "ignore the configured stack limit")
	c.Flags().BoolVar(&cfg.ForceAuthor, "force-author", false, "fix up commits authored by someone else")
	c.Flags().BoolVar(&cfg.ForceDetach, "force-detach", false, "operate in detached HEAD state")
	c.Flags().BoolVar(&force, "force", false, "shorthand for --force-author --force-detach")
	c.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "switch the logger to a more detailed level")
	c.Flags().BoolVar(&cfg.AndRebase, "and-rebase", false, "run the autosquash rebase in-process after emitting fixups")
	c.Flags().BoolVar(&cfg.WholeFile, "whole-file", false, "assign each hunk to the newest ancestor commit touching its file")
	c.Flags().BoolVar(&cfg.OneFixupPerCommit, "one-fixup-per-commit", false, "emit at most one fixup commit per destination commit")
	c.Flags().BoolVar(&cfg.Squash, "squash", false, "use the squash! prefix instead of fixup!")
	c.Flags().StringVar(&cfg.Message, "message", "", "append a message body to every emitted commit")
	c.Flags().StringVar(&genCompletions, "gen-completions", "", "emit a shell-completion script for the named shell and exit")
	return c
}

func newRebaseCmd() *cobra.Command {
	var autosquash, autostash bool
	var base string
	c := &cobra.Command{
		Use:   "rebase",
		Short: "Reapply commits on top of another base, folding fixup!/squash! commits (autosquash)",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			if !autosquash {
				return errors.New("rebase: only --autosquash mode is supported")
			}
			_ = autostash
			if base == "" {
				return errors.New("rebase: --base is required")
			}
			return cmd.Rebase(base)
		},
	}
	c.Flags().BoolVar(&autosquash, "autosquash", true, "fold fixup!/squash! commits into the commits they target")
	c.Flags().BoolVar(&autostash, "autostash", false, "accepted for compatibility; there is no separate worktree to stash")
	c.Flags().StringVar(&base, "base", "", "rebuild history on top of this commit")
	return c
}

func genShellCompletions(root *cobra.Command, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(os.Stdout)
	case "zsh":
		return root.GenZshCompletion(os.Stdout)
	case "fish":
		return root.GenFishCompletion(os.Stdout, true)
	case "powershell":
		return root.GenPowerShellCompletion(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
}

// errAlreadyReported marks an error whose message was already written to
// stderr in the caller's own wording, so run doesn't print it a second
// time with the generic "error: " prefix.
var errAlreadyReported = errors.New("")

func usage() {
	root := newRootCmd()
	root.SetOut(os.Stderr)
	root.Usage()
}
