package engine

import (
	"io"

	"github.com/go-drift/xilem/pkg/config"
	"github.com/go-drift/xilem/pkg/logging"
)

// Configure loads xilem.yaml from dir (defaults when absent) and installs a
// process logger writing to w as the file's log section asks. Pass the
// result to WithConfig.
func Configure(dir string, w io.Writer) (*config.Config, error) {
	cfg, err := config.LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LoggerOptions(), w)
	if err != nil {
		return nil, err
	}
	logging.SetLogger(logger)
	return cfg, nil
}
