package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	apperrors "github.com/target/banksim-ui/internal/errors"
	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/service"
)

const defaultCommandTimeout = 30 * time.Second

// Credentials fall back to these variables so they stay out of shell history.
const (
	envAdminEmail    = "BANKSIM_ADMIN_EMAIL"
	envAdminPassword = "BANKSIM_ADMIN_PASSWORD"
)

type loginOptions struct {
	Email    string
	Password string
	Timeout  time.Duration
}

type accountsOptions struct {
	loginOptions
	All bool
}

type exportOptions struct {
	loginOptions
	AccountNumber string
	Dir           string
}

func bindLoginFlags(fs *flag.FlagSet, opts *loginOptions) {
	fs.StringVar(&opts.Email, "email", os.Getenv(envAdminEmail), "Email to sign in with (default $"+envAdminEmail+")")
	fs.StringVar(&opts.Password, "password", os.Getenv(envAdminPassword), "Password (default $"+envAdminPassword+")")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the command")
}

func (o loginOptions) validate() error {
	if strings.TrimSpace(o.Email) == "" || o.Password == "" {
		return errors.New("--email and --password are required")
	}
	if o.Timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	return nil
}

func parseProbeFlags(args []string) (time.Duration, error) {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", defaultCommandTimeout, "Maximum duration for the probe")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *timeout <= 0 {
		return 0, errors.New("--timeout must be greater than zero")
	}
	return *timeout, nil
}

func parseLoginFlags(name string, args []string) (loginOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var opts loginOptions
	bindLoginFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	return opts, opts.validate()
}

func parseAccountsFlags(args []string) (accountsOptions, error) {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var opts accountsOptions
	bindLoginFlags(fs, &opts.loginOptions)
	fs.BoolVar(&opts.All, "all", false, "List every account instead of the signed-in user's")
	if err := fs.Parse(args); err != nil {
		return accountsOptions{}, err
	}
	return opts, opts.validate()
}

func parseExportFlags(args []string) (exportOptions, error) {
	fs := flag.NewFlagSet("export-csv", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var opts exportOptions
	bindLoginFlags(fs, &opts.loginOptions)
	fs.StringVar(&opts.AccountNumber, "account", "", "Account number to export")
	fs.StringVar(&opts.Dir, "dir", ".", "Directory to write the CSV into")
	if err := fs.Parse(args); err != nil {
		return exportOptions{}, err
	}
	// The account number is checked by the exporter so the CLI reports the
	// same message the UI shows.
	return opts, opts.validate()
}

func (cmdCtx *commandContext) withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// signIn builds a fresh client and logs in with opts.
//
//nolint:ireturn // the client is whatever the factory builds.
func (cmdCtx *commandContext) signIn(ctx context.Context, opts loginOptions) (ports.VisitorClient, domainauth.Identity, error) {
	client, err := cmdCtx.NewClient()
	if err != nil {
		return nil, domainauth.Identity{}, fmt.Errorf("build backend client: %w", err)
	}
	identity, err := client.Login(ctx, strings.TrimSpace(opts.Email), opts.Password)
	if err != nil {
		return nil, domainauth.Identity{}, fmt.Errorf("login: %w", err)
	}
	cmdCtx.Logger.InfoContext(ctx, "signed in", "user_id", identity.ID, "role", identity.Role)
	return client, identity, nil
}

// signOut ends the backend session; failures are only logged.
func (cmdCtx *commandContext) signOut(ctx context.Context, client ports.VisitorClient) {
	if err := client.Logout(context.WithoutCancel(ctx)); err != nil {
		cmdCtx.Logger.WarnContext(ctx, "logout failed", "error", err)
	}
}

func runProbe(cmdCtx *commandContext, args []string) error {
	timeout, err := parseProbeFlags(args)
	if err != nil {
		return err
	}
	ctx, cancel := cmdCtx.withTimeout(timeout)
	defer cancel()

	client, err := cmdCtx.NewClient()
	if err != nil {
		return fmt.Errorf("build backend client: %w", err)
	}

	start := time.Now()
	identity, err := client.WhoAmI(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	switch {
	case err == nil:
		return writef(cmdCtx.Out, "backend ok (%s): signed in as %s\n", elapsed, displayName(identity))
	case answeredWithoutSession(err):
		return writef(cmdCtx.Out, "backend ok (%s): no session\n", elapsed)
	default:
		return fmt.Errorf("backend probe failed after %s: %w", elapsed, err)
	}
}

func displayName(id domainauth.Identity) string {
	if id.Name != "" {
		return id.Name
	}
	if id.Email != "" {
		return id.Email
	}
	return fmt.Sprintf("user %d", id.ID)
}

// answeredWithoutSession reports whether err is the backend saying "not signed
// in" rather than a transport failure.
func answeredWithoutSession(err error) bool {
	return apperrors.HTTPStatus(apperrors.FromBackend(err)) < http.StatusInternalServerError
}

func runWhoAmI(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags("whoami", args)
	if err != nil {
		return err
	}
	ctx, cancel := cmdCtx.withTimeout(opts.Timeout)
	defer cancel()

	client, _, err := cmdCtx.signIn(ctx, opts)
	if err != nil {
		return err
	}
	defer cmdCtx.signOut(ctx, client)

	identity, err := client.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	return printIdentity(cmdCtx, identity)
}

func printIdentity(cmdCtx *commandContext, id domainauth.Identity) error {
	w := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"ID", fmt.Sprint(id.ID)},
		{"Name", id.Name},
		{"Email", id.Email},
		{"Role", string(id.Role)},
		{"Status", id.Status},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		if err := writef(w, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write identity: %w", err)
		}
	}
	return w.Flush()
}

func runAccounts(cmdCtx *commandContext, args []string) error {
	opts, err := parseAccountsFlags(args)
	if err != nil {
		return err
	}
	ctx, cancel := cmdCtx.withTimeout(opts.Timeout)
	defer cancel()

	client, identity, err := cmdCtx.signIn(ctx, opts.loginOptions)
	if err != nil {
		return err
	}
	defer cmdCtx.signOut(ctx, client)

	var accounts []banking.Account
	if opts.All {
		if identity.Role != domainauth.RoleAdmin {
			return errors.New("--all requires an admin account")
		}
		accounts, err = client.AllAccounts(ctx)
	} else {
		accounts, err = client.MyAccounts(ctx)
	}
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	return printAccounts(cmdCtx, accounts)
}

func printAccounts(cmdCtx *commandContext, accounts []banking.Account) error {
	if len(accounts) == 0 {
		return writeln(cmdCtx.Out, "No accounts found")
	}
	w := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Number\tName\tType\tStatus\tBalance"); err != nil {
		return fmt.Errorf("write accounts header: %w", err)
	}
	for _, a := range accounts {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\n",
			a.AccountNumber, a.AccountName, a.AccountType, a.Status, a.Balance.StringFixed(2)); err != nil {
			return fmt.Errorf("write account %s: %w", a.AccountNumber, err)
		}
	}
	return w.Flush()
}

func runExportCSV(cmdCtx *commandContext, args []string) error {
	opts, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	ctx, cancel := cmdCtx.withTimeout(opts.Timeout)
	defer cancel()

	client, _, err := cmdCtx.signIn(ctx, opts.loginOptions)
	if err != nil {
		return err
	}
	defer cmdCtx.signOut(ctx, client)

	messages, err := service.NewMessageExtractor(cmdCtx.Config.Backend.ExportMessageExpr)
	if err != nil {
		return err
	}
	exporter, err := service.NewCSVExporter(service.CSVExporterOptions{
		API:      client,
		Messages: messages,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	path, err := exporter.SaveTo(ctx, opts.Dir, opts.AccountNumber)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Out, "saved %s\n", path)
}
