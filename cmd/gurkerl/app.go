package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gurkerl-cli/internal/config"
	"gurkerl-cli/internal/credentials"
	"gurkerl-cli/internal/gateway"
	"gurkerl-cli/internal/logging"
	cartrepo "gurkerl-cli/internal/repository/cart"
	listrepo "gurkerl-cli/internal/repository/list"
	orderrepo "gurkerl-cli/internal/repository/order"
	productrepo "gurkerl-cli/internal/repository/product"
	sessionrepo "gurkerl-cli/internal/repository/session"
	authsvc "gurkerl-cli/internal/service/auth"
	cartsvc "gurkerl-cli/internal/service/cart"
	listsvc "gurkerl-cli/internal/service/list"
	ordersvc "gurkerl-cli/internal/service/order"
	productsvc "gurkerl-cli/internal/service/product"
)

const version = "0.1.0"

// app carries the per-invocation wiring. Services are built once flags are parsed.
type app struct {
	cfg    config.Config
	in     *bufio.Reader
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer
	json   bool
	logger *slog.Logger

	keychain *credentials.Keychain
	auth     *authsvc.Service
	cart     *cartsvc.Service
	products *productsvc.Service
	lists    *listsvc.Service
	orders   *ordersvc.Service
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		cfg:    config.FromEnv(),
		in:     bufio.NewReader(stdin),
		stdin:  stdin,
		out:    stdout,
		errOut: stderr,
		logger: logging.Nop(),
	}
}

func (a *app) wire() {
	a.logger = logging.New(a.errOut, a.cfg.Debug)

	gw := gateway.New(a.cfg.BaseURL, gateway.WithLogger(a.logger))
	sessions := sessionrepo.NewFile(a.cfg.SessionFile(), sessionrepo.WithLogger(a.logger))
	a.keychain = credentials.NewKeychain()
	resolver := credentials.NewResolver(
		[]credentials.Source{a.keychain, &credentials.DotEnvFile{Path: a.cfg.EnvFile}, credentials.NewEnvironment()},
		credentials.WithLogger(a.logger),
		credentials.WithAdvisor(func(adv credentials.Advisory) {
			fmt.Fprintf(a.errOut, "Warning: %s\n", adv.Message)
		}),
	)
	a.auth = authsvc.New(gw, sessions, resolver,
		authsvc.WithKeychain(a.keychain),
		authsvc.WithLogger(a.logger),
	)

	a.cart = cartsvc.New(cartrepo.NewRemote(a.auth), cartsvc.WithLogger(a.logger))
	a.products = productsvc.New(productrepo.NewRemote(gw, a.logger))
	a.lists = listsvc.New(listrepo.NewRemote(a.auth), listsvc.WithLogger(a.logger))
	a.orders = ordersvc.New(orderrepo.NewRemote(a.auth))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "gurkerl",
		Short:         "Command-line client for the gurkerl.at grocery shop",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.wire()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := root.PersistentFlags()
	flags.BoolVar(&a.json, "json", false, "Output as JSON")
	flags.BoolVar(&a.cfg.Debug, "debug", a.cfg.Debug, "Enable debug logging")
	flags.StringVar(&a.cfg.BaseURL, "base-url", a.cfg.BaseURL, "Shop API base URL")
	flags.StringVar(&a.cfg.ConfigDir, "config-dir", a.cfg.ConfigDir, "Directory holding the session file")
	flags.StringVar(&a.cfg.EnvFile, "env-file", a.cfg.EnvFile, "Path of the .env credentials file")
	_ = flags.MarkHidden("base-url")

	root.AddCommand(
		newAuthCmd(a),
		newCartCmd(a),
		newSearchCmd(a),
		newListsCmd(a),
		newOrdersCmd(a),
	)
	return root
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil && ctx.Err() != nil {
		err = context.Canceled
	}
	if err != nil {
		if isCobraUsageError(err) {
			err = usageError{err}
		}
		fmt.Fprintln(stderr, "Error:", errorMessage(err))
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(stderr, "Run 'gurkerl --help' for usage.")
		}
	}
	return exitCode(err)
}

// confirm asks a yes/no question on stdin; anything but y/yes is a no.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.errOut, "%s [y/N]: ", question)
	line, _ := a.in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprintf(a.errOut, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func stdinFile(r io.Reader) (*os.File, bool) {
	f, ok := r.(*os.File)
	return f, ok
}
