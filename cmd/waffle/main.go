package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bytecodealliance/waffle/ir"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("waffle: command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:   "waffle",
		Short: "Inspect and transform WAFFLE SSA IR modules",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML file of default flag values")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose diagnostic logging")

	root.AddCommand(newPrintIRCmd(&configPath))
	root.AddCommand(newPrintFuncCmd(&configPath))
	root.AddCommand(newRoundtripCmd(&configPath))
	return root
}

// loadOpts merges the (optional) YAML config with explicitly-set flags: a
// flag the user actually passed always wins over the config file.
func loadOpts(cmd *cobra.Command, configPath string, basicOpts, maxSSA, debugInfo *bool) error {
	cfg, err := loadDriverConfig(configPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("basic-opts") {
		*basicOpts = cfg.BasicOpts
	}
	if !cmd.Flags().Changed("max-ssa") {
		*maxSSA = cfg.MaxSSA
	}
	if !cmd.Flags().Changed("debug-info") {
		*debugInfo = cfg.DebugInfo
	}
	return nil
}

func newPrintIRCmd(configPath *string) *cobra.Command {
	var basicOpts, maxSSA, debugInfo, demo bool
	cmd := &cobra.Command{
		Use:   "print-ir",
		Short: "Print every function in a module as WAFFLE's textual IR",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOpts(cmd, *configPath, &basicOpts, &maxSSA, &debugInfo); err != nil {
				return err
			}
			if !demo {
				return fmt.Errorf("print-ir: no Decoder is linked into this build; pass --demo to inspect a built-in sample module (spec.md names the binary Wasm codec an external collaborator)")
			}
			m := buildDemoModule()
			applyPasses(m, basicOpts, maxSSA)
			fmt.Fprint(cmd.OutOrStdout(), m.Display(nil).String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&basicOpts, "basic-opts", false, "run GVN, constant folding, and dead code elimination before printing")
	cmd.Flags().BoolVar(&maxSSA, "max-ssa", false, "convert every function to maximal SSA before printing")
	cmd.Flags().BoolVar(&debugInfo, "debug-info", false, "decode with source-location debug info retained (demo module ignores this)")
	cmd.Flags().BoolVar(&demo, "demo", false, "operate on a built-in sample module instead of decoding a file")
	return cmd
}

func newPrintFuncCmd(configPath *string) *cobra.Command {
	var basicOpts, maxSSA, debugInfo, demo, verbose bool
	var name string
	cmd := &cobra.Command{
		Use:   "print-func",
		Short: "Print a single function by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOpts(cmd, *configPath, &basicOpts, &maxSSA, &debugInfo); err != nil {
				return err
			}
			if !demo {
				return fmt.Errorf("print-func: no Decoder is linked into this build; pass --demo to inspect a built-in sample module")
			}
			m := buildDemoModule()
			applyPasses(m, basicOpts, maxSSA)

			var found *ir.FunctionBody
			m.Funcs.ForEach(func(_ uint32, decl *ir.FuncDecl) bool {
				if decl.Name == name && decl.Body != nil {
					found = decl.Body
					return false
				}
				return true
			})
			if found == nil {
				return fmt.Errorf("print-func: no materialized function named %q", name)
			}
			if verbose {
				fmt.Fprint(cmd.OutOrStdout(), found.DisplayVerbose("", m, nil).String())
			} else {
				fmt.Fprint(cmd.OutOrStdout(), found.Display("", m).String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "max", "name of the function to print")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "include the full per-value definition pre-pass")
	cmd.Flags().BoolVar(&basicOpts, "basic-opts", false, "run GVN, constant folding, and dead code elimination before printing")
	cmd.Flags().BoolVar(&maxSSA, "max-ssa", false, "convert every function to maximal SSA before printing")
	cmd.Flags().BoolVar(&debugInfo, "debug-info", false, "decode with source-location debug info retained (demo module ignores this)")
	cmd.Flags().BoolVar(&demo, "demo", false, "operate on a built-in sample module instead of decoding a file")
	return cmd
}

func newRoundtripCmd(configPath *string) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Expand every lazy function and re-encode the module",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !demo {
				return fmt.Errorf("roundtrip: no Decoder is linked into this build; pass --demo to exercise the expand/encode path against a built-in sample module")
			}
			// The demo module has no registered Decoder/Encoder (there is
			// none to link in, per spec.md §1), so ExpandAllFuncs below hits
			// the core's invariant panic on the demo's Lazy function rather
			// than returning an error; ToWasmBytes, which would panic for
			// want of an Encoder, is not reached. Recover the panic and
			// report it like any other command
			// error instead of crashing, the way a harness around core code
			// would (spec.md §7).
			defer func() {
				if r := recover(); r != nil {
					if iv, ok := r.(*ir.InvariantViolation); ok {
						err = iv
						return
					}
					panic(r)
				}
			}()
			m := buildDemoModule()
			log.Debug("expanding lazy functions")
			if err := m.ExpandAllFuncs(); err != nil {
				log.WithError(err).Warn("expansion stopped on a function whose body could not be decoded")
				return err
			}
			log.Debug("re-encoding module")
			if _, err := m.ToWasmBytes(); err != nil {
				log.WithError(err).Warn("re-encoding failed")
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "operate on a built-in sample module instead of decoding a file")
	return cmd
}

func applyPasses(m *ir.Module, basicOpts, maxSSA bool) {
	m.PerFuncBody(func(fb *ir.FunctionBody) {
		if basicOpts {
			log.Debug("running basic optimizations")
			fb.Optimize(ir.DefaultOptOptions())
		}
		if maxSSA {
			log.Debug("converting to maximal SSA")
			fb.ConvertToMaxSSA(nil)
		}
	})
}
