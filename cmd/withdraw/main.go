// Command withdraw maneja el carrito de retiro de un distribuidor contra la API.
//
// Uso:
//
//	withdraw [flags] show
//	withdraw [flags] pick <producto>
//	withdraw [flags] add <producto> <opción>=<cantidad> ...
//	withdraw [flags] delete <fila>
//	withdraw [flags] distributor <código|->
//	withdraw [flags] submit
//	withdraw [flags] clear
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jhoicas/retiros-api/internal/application/withdrawal"
	"github.com/jhoicas/retiros-api/internal/infrastructure/remote"
	"github.com/jhoicas/retiros-api/pkg/config"
	"github.com/jhoicas/retiros-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var partial *partialExit
		if errors.As(err, &partial) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

// partialExit marca la salida cuando el retiro quedó registrado pero el carrito no se limpió.
type partialExit struct{ err error }

func (p *partialExit) Error() string { return p.err.Error() }
func (p *partialExit) Unwrap() error { return p.err }

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := pflag.NewFlagSet("withdraw", pflag.ContinueOnError)
	fs.StringVar(&cfg.Client.BaseURL, "base-url", cfg.Client.BaseURL, "URL base de la API")
	fs.StringVarP(&cfg.Client.DistributorCode, "distributor", "d", cfg.Client.DistributorCode, "distribuidor dueño del carrito")
	fs.IntVar(&cfg.Client.WithdrawBy, "withdraw-by", cfg.Client.WithdrawBy, "id de quien registra el retiro")
	fs.DurationVar(&cfg.Client.Timeout, "timeout", cfg.Client.Timeout, "timeout por petición")
	verbose := fs.BoolP("verbose", "v", false, "logs de depuración")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("falta el comando (show, pick, add, delete, distributor, submit, clear)")
	}
	if cfg.Client.DistributorCode == "" {
		return errors.New("falta el distribuidor (--distributor o DISTRIBUTOR_CODE)")
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Service: "withdraw-cli", Output: os.Stderr})

	client := remote.NewClient(cfg.Client.BaseURL, cfg.Client.Timeout, log.Zerolog())
	session := withdrawal.NewSession(client, withdrawal.SessionConfig{
		OwnerCode:  cfg.Client.DistributorCode,
		WithdrawBy: cfg.Client.WithdrawBy,
	}, log.Zerolog())
	defer session.Close()

	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("iniciar sesión: %w", err)
	}

	cmd := &commands{session: session, client: client, owner: cfg.Client.DistributorCode, out: out}
	return cmd.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}
