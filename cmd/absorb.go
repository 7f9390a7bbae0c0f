package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/nikola43/gogit-absorb/internal/absorb"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

// Absorb runs one absorption pass against the repository containing the
// current directory, logging its outcome through log.
func Absorb(cfg absorb.Config, log *logrus.Logger) error {
	root, err := repo.Find()
	if err != nil {
		return err
	}
	return absorb.Run(root, cfg, log)
}
