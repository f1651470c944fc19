// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/ls8/config"
	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

var (
	Version = "dev"
)

// options shared by all subcommands.
type options struct {
	config   string
	verbose  bool
	asm      bool
	maxTicks int
	output   string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line, and returns the process exit code.
func execute(args []string, stdout io.Writer, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "ls8: %v\n", err)
	}

	return exitCode(err)
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	var rootCmd = &cobra.Command{
		Use:           "ls8",
		Short:         "LS-8 emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "configuration file (default ./"+config.FILENAME+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose mode")

	var runCmd = &cobra.Command{
		Use:   "run FILE",
		Short: "Run an .ls8 program, or assembly source with --asm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd, opts, args[0], stdout)
		},
	}
	runCmd.Flags().BoolVarP(&opts.asm, "asm", "a", false, "treat FILE as assembly source")
	runCmd.Flags().IntVarP(&opts.maxTicks, "max-ticks", "t", 0, "fail after this many instructions (0 is unlimited)")

	var asmCmd = &cobra.Command{
		Use:   "asm FILE",
		Short: "Assemble source into the .ls8 format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return assemble(opts, args[0], stdout)
		},
	}
	asmCmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file")

	var disasmCmd = &cobra.Command{
		Use:   "disasm FILE",
		Short: "Disassemble an .ls8 program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disassemble(opts, args[0], stdout)
		},
	}
	disasmCmd.Flags().BoolVarP(&opts.asm, "asm", "a", false, "treat FILE as assembly source")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "ls8 %v\n", Version)
		},
	}

	rootCmd.AddCommand(runCmd, asmCmd, disasmCmd, versionCmd)

	return rootCmd
}

// isSource returns true if the file should be assembled, rather than loaded.
func isSource(opts *options, path string) bool {
	if opts.asm {
		return true
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s":
		return true
	}

	return false
}

// loadProgram reads a program from a .ls8 file, or assembles it from source.
func loadProgram(opts *options, cfg *config.Config, emu *emulator.Emulator, path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if isSource(opts, path) {
		asm := &cpu.Assembler{Verbose: opts.verbose || cfg.Assembler.Verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		for key, value := range cfg.Assembler.Defines {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: opts.verbose || cfg.Emulator.Verbose}
		prog, err = ld.Parse(inf)
	}

	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

func runProgram(cmd *cobra.Command, opts *options, path string, stdout io.Writer) (err error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = opts.verbose || cfg.Emulator.Verbose
	emu.MaxTicks = cfg.Emulator.MaxTicks
	if cmd.Flags().Changed("max-ticks") {
		emu.MaxTicks = opts.maxTicks
	}
	emu.Console.Output = stdout

	emu.Program, err = loadProgram(opts, cfg, emu, path)
	if err != nil {
		return
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	return
}

func assemble(opts *options, path string, stdout io.Writer) (err error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return
	}

	opts.asm = true
	prog, err := loadProgram(opts, cfg, emulator.NewEmulator(), path)
	if err != nil {
		return
	}

	out := stdout
	if opts.output != "-" {
		var ouf *os.File
		ouf, err = os.Create(opts.output)
		if err != nil {
			return
		}
		defer func() {
			cerr := ouf.Close()
			if err == nil {
				err = cerr
			}
		}()
		out = ouf
	}

	_, err = prog.WriteTo(out)
	return
}

func disassemble(opts *options, path string, stdout io.Writer) (err error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return
	}

	prog, err := loadProgram(opts, cfg, emulator.NewEmulator(), path)
	if err != nil {
		return
	}

	for pc, text := range cpu.Disassembly(prog.Binary()) {
		_, err = fmt.Fprintf(stdout, "%02x: %v\n", pc, text)
		if err != nil {
			return
		}
	}

	return
}
