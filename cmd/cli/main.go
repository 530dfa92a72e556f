package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/honeybbq/corosyncconf/pkg/cserrors"
	"github.com/honeybbq/corosyncconf/pkg/quorumconf"
	"github.com/honeybbq/corosyncconf/pkg/reports"
	csync "github.com/honeybbq/corosyncconf/pkg/sync"
)

type operation struct {
	mutating bool
	run      func(f *quorumconf.Facade, p reports.Processor, args *cliArgs) error
}

type cliArgs struct {
	model          string
	options        map[string]string
	modelOptions   map[string]string
	genericOptions map[string]string
}

func main() {
	var (
		opName      = flag.String("op", "", "operation: get-nodes | get-quorum-options | set-quorum-options | get-device | add-device | update-device | remove-device | reformat | list-ops")
		inputPath   = flag.String("in", "", "corosync.conf path (default: stdin)")
		outputPath  = flag.String("out", "", "output path for mutating operations (default: stdout)")
		force       = flag.Bool("force", false, "override forceable validation problems")
		showDiff    = flag.Bool("diff", false, "print quorum option changes after a mutating operation")
		model       = flag.String("model", "", "quorum device model (add-device)")
		options     = flag.String("options", "", "quorum options as YAML/JSON map (set-quorum-options)")
		modelOpts   = flag.String("model-options", "", "device model options as YAML/JSON map")
		genericOpts = flag.String("generic-options", "", "generic device options as YAML/JSON map")
	)
	flag.Parse()

	registry := buildRegistry()
	if *opName == "list-ops" {
		printOperations(registry)
		return
	}
	if *opName == "" {
		exitWithError(errors.New("operation is required (use -op, see -op list-ops)"))
	}
	op, ok := registry[strings.ToLower(*opName)]
	if !ok {
		exitWithError(fmt.Errorf("unknown operation %q", *opName))
	}

	text, err := readInput(*inputPath)
	if err != nil {
		exitWithError(fmt.Errorf("read input: %w", err))
	}

	facade, err := quorumconf.FromText(string(text))
	if err != nil {
		exitWithParseError(err)
	}

	args := &cliArgs{model: *model}
	if args.options, err = decodeOptionMap(*options); err != nil {
		exitWithError(fmt.Errorf("decode -options: %w", err))
	}
	if args.modelOptions, err = decodeOptionMap(*modelOpts); err != nil {
		exitWithError(fmt.Errorf("decode -model-options: %w", err))
	}
	if args.genericOptions, err = decodeOptionMap(*genericOpts); err != nil {
		exitWithError(fmt.Errorf("decode -generic-options: %w", err))
	}

	var processor reports.Processor = reports.StrictProcessor{}
	var forcing *reports.ForcingProcessor
	if *force {
		forcing = &reports.ForcingProcessor{}
		processor = forcing
	}

	var before *csync.VersionedConfig
	if op.mutating && *showDiff {
		before = csync.Snapshot(string(text))
	}

	if err := op.run(facade, processor, args); err != nil {
		exitWithOperationError(err)
	}

	if forcing != nil {
		for _, warning := range forcing.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", reports.Render(warning))
		}
	}

	if !op.mutating {
		return
	}

	rendered, err := facade.ToText()
	if err != nil {
		exitWithError(fmt.Errorf("render: %w", err))
	}
	if err := writeOutput(*outputPath, []byte(rendered)); err != nil {
		exitWithError(fmt.Errorf("write output: %w", err))
	}
	if before != nil {
		printChangeSet(before, csync.Snapshot(rendered))
	}
}

func buildRegistry() map[string]operation {
	return map[string]operation{
		"get-nodes": {
			run: func(f *quorumconf.Facade, _ reports.Processor, _ *cliArgs) error {
				for _, node := range f.GetNodes() {
					fmt.Printf("%s (nodeid: %s, ring0: %s, ring1: %s)\n",
						node.Label(), node.ID, node.Ring0Addr, node.Ring1Addr)
				}
				return nil
			},
		},
		"get-quorum-options": {
			run: func(f *quorumconf.Facade, _ reports.Processor, _ *cliArgs) error {
				return printYAML(f.GetQuorumOptions())
			},
		},
		"set-quorum-options": {
			mutating: true,
			run: func(f *quorumconf.Facade, p reports.Processor, args *cliArgs) error {
				return f.SetQuorumOptions(p, args.options)
			},
		},
		"get-device": {
			run: func(f *quorumconf.Facade, _ reports.Processor, _ *cliArgs) error {
				if !f.HasQuorumDevice() {
					fmt.Println("no quorum device defined")
					return nil
				}
				model, modelOptions, genericOptions := f.GetQuorumDeviceSettings()
				return printYAML(map[string]any{
					"model":           model,
					"model_options":   modelOptions,
					"generic_options": genericOptions,
				})
			},
		},
		"add-device": {
			mutating: true,
			run: func(f *quorumconf.Facade, p reports.Processor, args *cliArgs) error {
				return f.AddQuorumDevice(p, args.model, args.modelOptions, args.genericOptions)
			},
		},
		"update-device": {
			mutating: true,
			run: func(f *quorumconf.Facade, p reports.Processor, args *cliArgs) error {
				return f.UpdateQuorumDevice(p, args.modelOptions, args.genericOptions)
			},
		},
		"remove-device": {
			mutating: true,
			run: func(f *quorumconf.Facade, _ reports.Processor, _ *cliArgs) error {
				return f.RemoveQuorumDevice()
			},
		},
		// reformat parses and re-renders without semantic changes.
		"reformat": {
			mutating: true,
			run: func(_ *quorumconf.Facade, _ reports.Processor, _ *cliArgs) error {
				return nil
			},
		},
	}
}

func printOperations(registry map[string]operation) {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Supported operations:")
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
}

// decodeOptionMap decodes a YAML (or JSON, a YAML subset) map flag.
// Empty values survive decoding: they mean "delete this option".
func decodeOptionMap(payload string) (map[string]string, error) {
	if payload == "" {
		return map[string]string{}, nil
	}
	options := map[string]string{}
	if err := yaml.Unmarshal([]byte(payload), &options); err != nil {
		return nil, err
	}
	return options, nil
}

func printYAML(value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func printChangeSet(before, after *csync.VersionedConfig) {
	changes, err := csync.Compare(before, after)
	if err != nil || changes.Diff.Empty() {
		return
	}
	fmt.Fprintln(os.Stderr, "quorum option changes:")
	for _, name := range sortedKeys(changes.Diff.Added) {
		fmt.Fprintf(os.Stderr, "  + %s: %s\n", name, changes.Diff.Added[name])
	}
	for _, name := range sortedKeys(changes.Diff.Removed) {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", name, changes.Diff.Removed[name])
	}
	changed := make([]string, 0, len(changes.Diff.Changed))
	for name := range changes.Diff.Changed {
		changed = append(changed, name)
	}
	sort.Strings(changed)
	for _, name := range changed {
		pair := changes.Diff.Changed[name]
		fmt.Fprintf(os.Stderr, "  ~ %s: %s -> %s\n", name, pair[0], pair[1])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func exitWithParseError(err error) {
	var code reports.Code
	switch cserrors.KindOf(err) {
	case cserrors.KindMissingClosingBrace:
		code = reports.CodeParseErrorMissingClosingBrace
	case cserrors.KindUnexpectedClosingBrace:
		code = reports.CodeParseErrorUnexpectedClosingBrace
	default:
		code = reports.CodeParseError
	}
	exitWithError(errors.New(reports.Render(reports.NewError(code, nil))))
}

func exitWithOperationError(err error) {
	var reportErr *reports.ReportError
	if errors.As(err, &reportErr) {
		for _, problem := range reportErr.Problems {
			fmt.Fprintln(os.Stderr, "error:", reports.Render(problem))
		}
		os.Exit(1)
	}
	exitWithError(err)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
