// stockctl cliente de línea de comandos de la API de control de estoque.
//
// Uso: stockctl [opciones] <comando> [argumentos]
// La configuración sale de las variables de entorno, de .env y de las opciones
// globales (--api-url, --session, ...). Ejecute `stockctl --help` para la lista
// de comandos.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/stockctl/internal/interfaces/cli"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(cli.Options{}).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
