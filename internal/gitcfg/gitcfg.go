// Package gitcfg reads the repository's configuration store — the
// "absorb.*" keys listed in spec §6 — via an ini-formatted file at
// .gogit/config, the same key=value shape real git uses for its own
// config.
package gitcfg

import (
	"os"

	"gopkg.in/ini.v1"

	"github.com/nikola43/gogit-absorb/internal/repo"
)

const (
	MaxStackKey               = "maxStack"
	ForceAuthorKey             = "forceAuthor"
	ForceDetachKey             = "forceDetach"
	OneFixupPerCommitKey       = "oneFixupPerCommit"
	AutoStageIfNothingStaged   = "autoStageIfNothingStaged"
	FixupTargetAlwaysSHAKey    = "fixupTargetAlwaysSHA"

	DefaultMaxStack = 10
)

// Store is a read-only view over the repository's [absorb] config section,
// with the defaults from spec §6 baked in for every key it does not find.
type Store struct {
	file *ini.File
}

// Load reads .gogit/config, if present. A missing file is not an error —
// it yields a Store that returns every key's default, matching a
// freshly-initialized repository with no configuration set.
func Load(root string) (*Store, error) {
	path := repo.ConfigPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Store{file: ini.Empty()}, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{file: f}, nil
}

func (s *Store) section() *ini.Section {
	return s.file.Section("absorb")
}

// Int returns the integer value of an absorb.* key, or def if unset or
// unparsable.
func (s *Store) Int(key string, def int) int {
	v, err := s.section().Key(key).Int()
	if err != nil {
		return def
	}
	return v
}

// Bool returns the boolean value of an absorb.* key, or def if unset or
// unparsable.
func (s *Store) Bool(key string, def bool) bool {
	if !s.section().HasKey(key) {
		return def
	}
	v, err := s.section().Key(key).Bool()
	if err != nil {
		return def
	}
	return v
}

// MaxStack returns absorb.maxStack, defaulting to 10; non-positive
// configured values fall back to the default too, matching the source's
// "max_stack if max_stack > 0" guard.
func (s *Store) MaxStack() int {
	v := s.Int(MaxStackKey, DefaultMaxStack)
	if v <= 0 {
		return DefaultMaxStack
	}
	return v
}

// ForceAuthor returns absorb.forceAuthor, defaulting to false.
func (s *Store) ForceAuthor() bool { return s.Bool(ForceAuthorKey, false) }

// ForceDetach returns absorb.forceDetach, defaulting to false.
func (s *Store) ForceDetach() bool { return s.Bool(ForceDetachKey, false) }

// OneFixupPerCommit returns absorb.oneFixupPerCommit, defaulting to false.
func (s *Store) OneFixupPerCommit() bool { return s.Bool(OneFixupPerCommitKey, false) }

// AutoStageIfNothingStaged returns absorb.autoStageIfNothingStaged,
// defaulting to false.
func (s *Store) AutoStageIfNothingStaged() bool {
	return s.Bool(AutoStageIfNothingStaged, false)
}

// FixupTargetAlwaysSHA returns absorb.fixupTargetAlwaysSHA, defaulting to
// false.
func (s *Store) FixupTargetAlwaysSHA() bool {
	return s.Bool(FixupTargetAlwaysSHAKey, false)
}
