// Command citadel is a thin presentation-layer caller over citadelkit:
// it feeds user-supplied strings to the classifier and prints the typed
// result. All real work happens in the kit packages.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mycitadel/citadelkit/pkg/bridge"
	"github.com/mycitadel/citadelkit/pkg/classify"
	"github.com/mycitadel/citadelkit/pkg/config"
	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/ffi/embedded"
	"github.com/mycitadel/citadelkit/pkg/ffi/wasmcore"
	"github.com/mycitadel/citadelkit/pkg/observability"
)

// Version is stamped at build time.
var Version = "dev"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run dispatches subcommands; split out for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}
	switch args[1] {
	case "classify":
		return runClassify(args[2:], stdout, stderr)
	case "invoice":
		return runInvoice(args[2:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "citadel %s\n", Version)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: citadel <command> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  classify <input>...   classify user-supplied strings")
	fmt.Fprintln(w, "  invoice               compose an invoice")
	fmt.Fprintln(w, "  version               print version")
}

func runClassify(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	network := fs.String("network", "", "network name (overrides environment)")
	profile := fs.String("profile", "", "path to a YAML network profile")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "classify: at least one input required")
		return 2
	}

	ctx := context.Background()
	cc, cleanup, err := setup(ctx, *network, *profile)
	if err != nil {
		fmt.Fprintf(stderr, "classify: %v\n", err)
		return 1
	}
	defer cleanup()

	classifier, err := classify.New(cc)
	if err != nil {
		fmt.Fprintf(stderr, "classify: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	for _, input := range fs.Args() {
		res := classifier.Classify(ctx, input)
		fp, err := res.Fingerprint()
		if err != nil {
			fmt.Fprintf(stderr, "classify: fingerprint: %v\n", err)
			return 1
		}
		if err := enc.Encode(struct {
			Input       string          `json:"input"`
			Fingerprint string          `json:"fingerprint"`
			Result      classify.Result `json:"result"`
		}{input, fp, res}); err != nil {
			fmt.Fprintf(stderr, "classify: %v\n", err)
			return 1
		}
	}
	return 0
}

func runInvoice(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("invoice", flag.ContinueOnError)
	fs.SetOutput(stderr)
	network := fs.String("network", "", "network name (overrides environment)")
	profile := fs.String("profile", "", "path to a YAML network profile")
	to := fs.String("to", "", "beneficiary address")
	asset := fs.String("asset", "", "asset contract id (empty for plain invoices)")
	amount := fs.Uint64("amount", 0, "invoice amount in atomic units")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *to == "" {
		fmt.Fprintln(stderr, "invoice: -to is required")
		return 2
	}

	ctx := context.Background()
	cc, cleanup, err := setup(ctx, *network, *profile)
	if err != nil {
		fmt.Fprintf(stderr, "invoice: %v\n", err)
		return 1
	}
	defer cleanup()

	res, err := cc.ComposeInvoice(ctx, ffi.InvoiceRequest{
		Beneficiary: *to,
		AssetID:     *asset,
		Amount:      *amount,
	})
	if err != nil {
		fmt.Fprintf(stderr, "invoice: %v\n", err)
		return 1
	}
	invoice, anchor, err := bridge.Dual(ctx, cc, res)
	if err != nil {
		fmt.Fprintf(stderr, "invoice: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, invoice)
	if anchor != nil {
		fmt.Fprintln(stdout, *anchor)
	}
	return 0
}

// setup resolves configuration and wires a call context over the
// configured core: the hosted wasm runtime when a binary is configured,
// the embedded core otherwise.
func setup(ctx context.Context, network, profilePath string) (*ffi.CallContext, func(), error) {
	cfg := config.Load()
	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if cfg.ProfilePath != "" {
		p, err := config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return nil, nil, err
		}
		p.Apply(cfg)
	}
	if network != "" {
		cfg.Network = network
	}

	logger := observability.NewLogger(cfg.LogLevel)

	var core ffi.Core
	if cfg.CoreWasmPath != "" {
		wasmBytes, err := os.ReadFile(cfg.CoreWasmPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read core module: %w", err)
		}
		rt, err := wasmcore.Load(ctx, wasmBytes, wasmcore.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		core = rt
	} else {
		emb, err := embedded.New(cfg.Network)
		if err != nil {
			return nil, nil, err
		}
		core = emb
	}

	cc, err := ffi.NewCallContext(ctx, core, logger)
	if err != nil {
		_ = core.Close(ctx)
		return nil, nil, err
	}
	return cc, func() { _ = cc.Close(ctx) }, nil
}
