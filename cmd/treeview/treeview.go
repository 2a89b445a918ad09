package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"
)

func treeviewMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer cfg.closeOut()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if err := cfg.setup(); err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// setup merges the -config file into cfg and checks the result.
func (cfg *MainConfig) setup() error {
	if cfg.ConfigFile != "" {
		fc, err := loadFileConfig(cfg.ConfigFile)
		if err != nil {
			return err
		}
		cfg.apply(fc)
	}
	if cfg.Sparsity < 0 {
		return fmt.Errorf("%w: sparsity must not be negative, got %d", cli.ErrUsage, cfg.Sparsity)
	}
	return nil
}

// outOpt redirects command output to a file; "-" keeps stdout.
func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(a), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(a)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) closeOut() {
	if cfg.CloseOut == nil {
		return
	}
	if err := cfg.CloseOut(); err != nil {
		fmt.Fprintf(os.Stderr, "closing %s: %v\n", cfg.Out, err)
	}
}
