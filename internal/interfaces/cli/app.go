// Package cli implementa stockctl: la línea de comandos que usa el cliente de
// la API de estoque (sesión, catálogo, alertas, dashboard y exportación).
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stockctl/internal/application/auth"
	"github.com/jhoicas/stockctl/internal/application/ports"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
	"github.com/jhoicas/stockctl/internal/infrastructure/sessionstore"
	"github.com/jhoicas/stockctl/internal/infrastructure/stockapi"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/config"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// Códigos de salida.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// errUsage argumentos inválidos; ya se imprimió la ayuda.
var errUsage = errors.New("uso incorrecto")

// Options dependencias inyectables. Lo que queda vacío se construye desde la
// configuración (env, .env y flags globales).
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Config *config.Config
	Store  ports.SessionStore
	Clock  clock.Clock
}

// App estado de una invocación.
type App struct {
	out, errOut io.Writer
	in          *bufio.Reader
	cfg         *config.Config
	store       ports.SessionStore
	closer      io.Closer
	clock       clock.Clock
	log         *logger.Logger

	api  *stockapi.Client
	auth *auth.AuthUseCase
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *App, args []string) error
}

var commands = []command{
	{"login", "iniciar sesión", runLogin},
	{"logout", "cerrar la sesión local", runLogout},
	{"whoami", "usuario de la sesión actual", runWhoami},
	{"register", "crear un usuario", runRegister},
	{"products", "list | get | create | update | delete", runProducts},
	{"movements", "list | create", runMovements},
	{"import", "cargar productos desde una planilla CSV", runImport},
	{"alerts", "productos por vencer, vencidos y con estoque bajo", runAlerts},
	{"dashboard", "resumen del estoque", runDashboard},
	{"export", "exportar productos (csv, json, zip)", runExport},
	{"backup", "descargar el backup completo", runBackup},
	{"filters", "opciones e historial de exportación", runFilters},
	{"report", "reporte del dashboard en PDF", runReport},
}

// New construye la aplicación.
func New(opts Options) *App {
	a := &App{
		out:    opts.Stdout,
		errOut: opts.Stderr,
		cfg:    opts.Config,
		store:  opts.Store,
		clock:  opts.Clock,
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.errOut == nil {
		a.errOut = os.Stderr
	}
	in := opts.Stdin
	if in == nil {
		in = os.Stdin
	}
	a.in = bufio.NewReader(in)
	if a.clock == nil {
		a.clock = clock.RealClock{}
	}
	return a
}

// Run ejecuta un comando y devuelve el código de salida.
func (a *App) Run(ctx context.Context, args []string) int {
	fs := pflag.NewFlagSet("stockctl", pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.SetInterspersed(false)
	fs.String("api-url", "", "URL base de la API (STOCK_API_URL)")
	fs.String("session", "", "backend de sesión: memory, file o redis (SESSION_BACKEND)")
	fs.String("log-level", "", "nivel de log (LOG_LEVEL)")
	fs.String("export-dir", "", "carpeta de descargas (EXPORT_DIR)")
	fs.Int("page-size", 0, "tamaño de página del backend (PAGE_SIZE)")
	fs.Usage = func() { a.usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	rest := fs.Args()
	if len(rest) == 0 {
		a.usage(fs)
		return ExitUsage
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == rest[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(a.errOut, "comando desconocido %q\n\n", rest[0])
		a.usage(fs)
		return ExitUsage
	}

	if err := a.setup(ctx, fs); err != nil {
		fmt.Fprintf(a.errOut, "error: %v\n", err)
		return ExitError
	}
	defer a.close()

	err := cmd.run(ctx, a, rest[1:])
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
		return ExitOK
	case errors.Is(err, errUsage):
		if err != errUsage {
			fmt.Fprintf(a.errOut, "error: %v\n", err)
		}
		return ExitUsage
	}
	a.printError(err)
	return ExitError
}

func (a *App) usage(fs *pflag.FlagSet) {
	fmt.Fprintln(a.errOut, "Uso: stockctl [opciones] <comando> [argumentos]")
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "Comandos:")
	tw := tabwriter.NewWriter(a.errOut, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.usage)
	}
	_ = tw.Flush()
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "Opciones:")
	fmt.Fprint(a.errOut, fs.FlagUsages())
}

// setup resuelve configuración, logger, sesión y clientes.
func (a *App) setup(ctx context.Context, fs *pflag.FlagSet) error {
	if a.cfg == nil {
		v := config.NewViper()
		v.SetDefault("LOG_LEVEL", "warn")
		for key, flag := range map[string]string{
			"STOCK_API_URL":   "api-url",
			"SESSION_BACKEND": "session",
			"LOG_LEVEL":       "log-level",
			"EXPORT_DIR":      "export-dir",
			"PAGE_SIZE":       "page-size",
		} {
			if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
				return err
			}
		}
		cfg, err := config.FromViper(v)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.log = logger.New(logger.Config{Env: a.cfg.App.Env, Level: a.cfg.App.LogLevel, Output: a.errOut})

	if a.store == nil {
		store, closer, err := sessionstore.Open(ctx, a.cfg)
		if err != nil {
			return err
		}
		a.store, a.closer = store, closer
	}

	gw, err := gateway.New(a.store, gateway.Options{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
		Logger:  a.log,
		OnSessionExpired: func() {
			fmt.Fprintln(a.errOut, domain.UserMessage(domain.ErrSessionExpired))
		},
	})
	if err != nil {
		return err
	}
	a.api = stockapi.New(gw)
	a.auth = auth.NewAuthUseCase(a.api, a.store, a.log)
	return nil
}

func (a *App) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// printError mensaje para el usuario; los errores por campo van uno por línea.
func (a *App) printError(err error) {
	if errors.Is(err, domain.ErrSessionExpired) {
		// OnSessionExpired ya avisó
		return
	}
	if fields, ok := domain.FieldErrors(err); ok {
		fmt.Fprintln(a.errOut, "error: datos inválidos")
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.errOut, "  %s: %s\n", k, fields[k])
		}
		return
	}
	fmt.Fprintf(a.errOut, "error: %s\n", domain.UserMessage(err))
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// prompt lee una línea de la entrada; "" al llegar a EOF.
func (a *App) prompt(label string) string {
	fmt.Fprint(a.errOut, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

// confirm "s" o "sim" confirman; cualquier otra respuesta cancela.
func (a *App) confirm(question string) bool {
	switch strings.ToLower(a.prompt(question + " [s/N] ")) {
	case "s", "si", "sí", "sim", "y", "yes":
		return true
	}
	return false
}

// requireSession falla con un mensaje claro antes de llamar a la red.
func (a *App) requireSession(ctx context.Context) error {
	ok, err := a.store.IsAuthenticated(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// newFlagSet flags de un subcomando; la ayuda va a stderr.
func (a *App) newFlagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "Uso: stockctl %s\n", usage)
		if fs.HasFlags() {
			fmt.Fprint(a.errOut, fs.FlagUsages())
		}
	}
	return fs
}

// parse aplica fs y traduce los errores de flags a errUsage.
func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}
