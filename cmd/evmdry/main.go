// evmdry executes EVM bytecode over calldata outside of any node.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/QuarkChain/go-evmdry/dryrun"
	"github.com/QuarkChain/go-evmdry/host"
)

var app *cli.App

func init() {
	app = &cli.App{
		Name:  "evmdry",
		Usage: "dry-run EVM bytecode against calldata",
		Flags: []cli.Flag{
			verbosityFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			commandRun,
		},
	}
}

var (
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 2,
	}
	calldataFlag = &cli.StringFlag{
		Name:  "calldata",
		Usage: "hex encoded calldata",
	}
	bytecodeFlag = &cli.StringFlag{
		Name:  "bytecode",
		Usage: "hex encoded bytecode to execute",
	}
	overrideFlag = &cli.StringFlag{
		Name:  "override",
		Usage: "hex encoded bytecode returned for every code lookup",
	}
	fileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "file holding calldata, bytecode and optional override, one hex string per line",
	}
	depthFlag = &cli.IntFlag{
		Name:  "depth",
		Usage: "maximum nested call depth, 0 selects the protocol limit",
		Value: host.DefaultConfig().MaxCallDepth,
	}
	inspectFlag = &cli.BoolFlag{
		Name:  "inspect",
		Usage: "log every nested call",
	}
)

var commandRun = &cli.Command{
	Name:      "run",
	Usage:     "execute bytecode once and print its return data",
	ArgsUsage: "[<calldata> <bytecode> [<override>]]",
	Description: `
Runs the bytecode with unbounded gas against an empty in-memory state.
Inputs are read from --file, from the --calldata/--bytecode/--override flags,
or from positional arguments, in that order of preference.`,
	Flags: []cli.Flag{
		calldataFlag,
		bytecodeFlag,
		overrideFlag,
		fileFlag,
		depthFlag,
		inspectFlag,
	},
	Action: runBytecode,
}

func setupLogging(ctx *cli.Context) error {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)), useColor)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func readRequest(ctx *cli.Context) (*dryrun.ExecutionRequest, error) {
	if path := ctx.String(fileFlag.Name); path != "" {
		return dryrun.ReadRequestFile(path)
	}
	if ctx.IsSet(bytecodeFlag.Name) {
		return dryrun.ParseRequest(ctx.String(calldataFlag.Name), ctx.String(bytecodeFlag.Name), ctx.String(overrideFlag.Name))
	}
	args := ctx.Args()
	if args.Len() < 2 {
		return nil, fmt.Errorf("%w: need calldata and bytecode", dryrun.ErrMissingInput)
	}
	return dryrun.ParseRequest(args.Get(0), args.Get(1), args.Get(2))
}

func runBytecode(ctx *cli.Context) error {
	depth := ctx.Int(depthFlag.Name)
	if depth < 0 {
		return fmt.Errorf("invalid --%s %d: must not be negative", depthFlag.Name, depth)
	}
	req, err := readRequest(ctx)
	if err != nil {
		return err
	}
	cfg := dryrun.DefaultConfig()
	cfg.Host.MaxCallDepth = depth
	if ctx.Bool(inspectFlag.Name) {
		cfg.Host.Inspect = true
		cfg.Observer = host.LogObserver{}
	}

	out := ctx.App.Writer
	result, err := dryrun.Run(req, cfg)
	if err != nil {
		fmt.Fprintf(out, "Bytecode exec failed, reason: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Bytecode exec successfully, result (in hex):\n%s\n", common.Bytes2Hex(result))
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
