package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/tactics-script/batch"
	"github.com/wippyai/tactics-script/config"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/opcode"
	"github.com/wippyai/tactics-script/script"
)

func main() {
	var (
		mode        = flag.String("mode", "export", "export (configured mode, messages by default), export-all, rebuild or info")
		readEnc     = flag.String("read", "", "Encoding of the script string pool (default from config, shift_jis)")
		writeEnc    = flag.String("write", "", "Encoding for rebuilt strings (default from config, shift_jis)")
		configFile  = flag.String("config", "", "Path to tactics.toml (default: search upward from the working directory)")
		outDir      = flag.String("out", "", "Directory for rebuilt scripts, relative to each script (default rebuild)")
		verbose     = flag.Bool("v", false, "Debug logging")
		interactive = flag.Bool("i", false, "Browse the strings of one script in a TUI")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tactics-script [-mode export|export-all|rebuild|info] [-read enc] [-write enc] <file|dir>")
		fmt.Fprintln(os.Stderr, "       tactics-script -i <file>  (interactive mode)")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *readEnc != "" {
		cfg.Encoding.Read = *readEnc
	}
	if *writeEnc != "" {
		cfg.Encoding.Write = *writeEnc
	}
	if *outDir != "" {
		cfg.Rebuild.OutputDir = *outDir
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	script.SetLogger(log)

	failed, err := run(path, *mode, cfg, log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
	if failed > 0 {
		_ = log.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FindAndLoad(".")
}

// run returns the number of files that failed.
func run(path, mode string, cfg *config.Config, log *zap.Logger) (int, error) {
	settings, err := batch.FromConfig(cfg)
	if err != nil {
		return 0, err
	}
	runner := &batch.Runner{Pattern: cfg.Input.Pattern, Log: log}

	var job func(string) error
	switch mode {
	case "export-all":
		settings.Mode = script.ExportAll
		fallthrough
	case "export":
		job = func(f string) error { return batch.Export(f, settings) }
	case "rebuild":
		job = func(f string) error { return batch.Rebuild(f, settings) }
	case "info":
		job = func(f string) error {
			rep, err := batch.Inspect(f, settings)
			if err != nil {
				return err
			}
			printReport(rep)
			return nil
		}
	default:
		return 0, fmt.Errorf("unknown mode %q", mode)
	}

	// Per-file failures are already logged by the runner; an error with
	// nothing processed means the input itself could not be listed.
	sum, err := runner.Run(path, job)
	if sum.Total == 0 {
		if err != nil {
			return 0, err
		}
		return 0, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Detail("no scripts matching %q in %s", runner.Pattern, path).Build()
	}
	return sum.Failed, nil
}

func printReport(rep batch.Report) {
	fmt.Printf("Script: %s\n", rep.File)
	fmt.Printf("Size: %d bytes\n", rep.Size)
	fmt.Printf("Code end: 0x%08X\n", rep.Layout.CodeEnd)
	fmt.Printf("Pool start: 0x%08X\n", rep.Layout.PoolStart)
	if rep.Layout.Terminated {
		fmt.Printf("Terminator: 0x%X\n", rep.Layout.Terminator)
	} else {
		fmt.Printf("Terminator: none\n")
	}
	fmt.Printf("Instructions: %d\n", rep.Instructions)
	fmt.Printf("References: %d\n", rep.References)
	fmt.Printf("Messages: %d\n", rep.Messages)

	fmt.Printf("\nOpcodes:\n")
	for _, c := range rep.Opcodes {
		info, _ := opcode.Lookup(c.Opcode)
		fmt.Printf("  0x%02X %-22s %6d  (%d strings)\n", c.Opcode, c.Name, c.Count, info.Strings())
	}
	fmt.Println()
}
