package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stache/cli/cmd"
	"github.com/ardnew/stache/cli/cmd/repl"
	"github.com/ardnew/stache/pkg"
)

// CLI is the top-level command-line interface for stache.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render templates against a data context"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Parse templates and print their structure"`
	Repl   repl.Repl  `cmd:""                    help:"Preview templates interactively"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run parses args, loads the configuration files and runs the selected
// command. Kong calls exit with the status code after printing help, the
// version or a usage error.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong parses so that configuration loading is
	// logged at the requested level.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// options returns the kong configuration of the stache application.
func (c *CLI) options(ctx context.Context, exit func(code int)) []kong.Option {
	yamlPath := configPath(configFile)

	vars := kong.Vars{
		"version":            pkg.Version(),
		cmd.ConfigIdentifier: yamlPath,
		cmd.CacheIdentifier:  cacheDir(),
	}

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, configPath(configFileJSON)),
		kong.Configuration(loadYAML, yamlPath),
		vars.CloneWith(c.Log.vars()).CloneWith(c.Pprof.vars()),
	}
}
