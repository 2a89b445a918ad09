package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "treeview").
		WithSynopsis("treeview [opts] command [opts]").
		WithDescription("treeview renders yaml and json documents as tree diagrams and checks them against fixtures.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return treeviewMain(cfg, cc, args)
		}).
		WithSubs(
			RenderCommand(cfg),
			DiffCommand(cfg),
			CheckCommand(cfg))
}

func RenderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenderConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Render, "render").
		WithAliases("r").
		WithSynopsis("render [files]").
		WithDescription("render yaml or json documents as trees, reading stdin when no file is given").
		WithRun(func(cc *cli.Context, args []string) error {
			return render(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithOpts(opts...).
		WithSynopsis("diff [opts] expected actual").
		WithDescription("line diff of two rendered trees, exits 1 when they differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("check").
		WithAliases("c").
		WithOpts(opts...).
		WithSynopsis("check -fixture path [-update] [files]").
		WithDescription("render documents and compare the result with a fixture file").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
	cfg.Check = cmd
	return cmd
}
