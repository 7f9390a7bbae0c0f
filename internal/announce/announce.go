// Package announce is the sole place user-facing wording lives for the
// absorption engine (spec §4.5): an enumerated Announcement value plus a
// logrus-backed renderer, so that the orchestrator emits data, never
// strings.
package announce

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Kind enumerates every outcome the orchestrator can report.
type Kind int

const (
	Committed Kind = iota
	WouldHaveCommitted
	WouldHaveRebased
	HowToSquash
	NothingStaged
	NothingStagedAfterAutoStaging
	NoFileModifications
	NonFileModifications
	FileModificationsWithoutTarget
	CannotFixUpPastFirstCommit
	CannotFixUpPastMerge
	WillNotFixUpPastAnotherAuthor
	WillNotFixUpPastStackLimit
	CommitsHiddenByBase
	CommitsHiddenByBranches
	CouldNotFindRepositoryPath
)

// Announcement is the data a renderer needs for one outcome. Not every
// field applies to every Kind; see Announce for which fields each Kind uses.
type Announcement struct {
	Kind Kind

	CommitHash    string
	TargetSummary string
	StackLimit    int
	Command       string
	Err           error
}

// Announcer renders Announcements through a logrus sink.
type Announcer struct {
	log *logrus.Logger
}

// New returns an Announcer backed by log. A nil log falls back to
// logrus's standard logger.
func New(log *logrus.Logger) *Announcer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Announcer{log: log}
}

// Announce renders a by dispatching on its Kind.
func (a *Announcer) Announce(ann Announcement) {
	switch ann.Kind {
	case Committed:
		a.log.WithField("commit", ann.CommitHash).Infof("fixup! %s", ann.TargetSummary)
	case WouldHaveCommitted:
		a.log.WithField("target", ann.TargetSummary).Info("dry run: would have committed a fixup")
	case WouldHaveRebased:
		a.log.WithField("command", ann.Command).Info("dry run: would have run the rebase")
	case HowToSquash:
		a.log.Infof("now run: %s", ann.Command)
	case NothingStaged:
		a.log.Warn("nothing to absorb, please stage some changes")
	case NothingStagedAfterAutoStaging:
		a.log.Warn("nothing to absorb even after auto-staging the working directory")
	case NoFileModifications:
		a.log.Warn("no in-place file modifications staged, nothing to absorb")
	case NonFileModifications:
		a.log.Warn("found staged changes, but none are in-place file modifications")
	case FileModificationsWithoutTarget:
		a.log.Warn("some hunks could not be matched to a commit to fix up")
	case CannotFixUpPastFirstCommit:
		a.log.Warn("cannot fix up past the first commit")
	case CannotFixUpPastMerge:
		a.log.WithField("commit", ann.CommitHash).Warn("will not fix up past a merge commit")
	case WillNotFixUpPastAnotherAuthor:
		a.log.WithField("commit", ann.CommitHash).Warn(
			"will not fix up past commits not authored by you, use --force-author to override")
	case WillNotFixUpPastStackLimit:
		a.log.WithField("limit", ann.StackLimit).Warn(
			"stack limit reached, use --base or configure absorb.maxStack to override")
	case CommitsHiddenByBase:
		a.log.Warn("please try a different --base")
	case CommitsHiddenByBranches:
		a.log.Warn("please use --base to specify a base commit")
	case CouldNotFindRepositoryPath:
		a.log.WithError(ann.Err).Error("could not find a repository at or above the current directory")
	}
}

// String returns ann's Kind formatted as its integer value. It does not
// render the text that Announce logs, and it omits the other fields.
func (ann Announcement) String() string {
	return fmt.Sprintf("%v", ann.Kind)
}
