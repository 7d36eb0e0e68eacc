package cli

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/pkg/format"
)

func runLogin(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("login", "login [-u usuario] [-p contraseña]")
	username := fs.StringP("username", "u", "", "nombre de usuario")
	password := fs.StringP("password", "p", "", "contraseña (se pide si falta)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		*username = a.prompt("Usuario: ")
	}
	if *password == "" {
		*password = a.prompt("Contraseña: ")
	}

	user, err := a.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sesión iniciada como %s\n", user.DisplayName())
	return nil
}

func runLogout(ctx context.Context, a *App, args []string) error {
	if err := parse(a.newFlagSet("logout", "logout"), args); err != nil {
		return err
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sesión cerrada")
	return nil
}

func runWhoami(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("whoami", "whoami [--verify]")
	verify := fs.Bool("verify", false, "consultar al servidor en lugar de la sesión guardada")
	if err := parse(fs, args); err != nil {
		return err
	}

	var (
		user *dto.UserDTO
		err  error
	)
	if *verify {
		user, err = a.auth.Verify(ctx)
	} else {
		user, err = a.auth.Restore(ctx)
	}
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintf(tw, "Usuario\t%s\n", user.Username)
	fmt.Fprintf(tw, "Nombre\t%s\n", user.DisplayName())
	fmt.Fprintf(tw, "Email\t%s\n", user.Email)
	fmt.Fprintf(tw, "Alta\t%s\n", format.DateTime(user.DateJoined))
	return tw.Flush()
}

func runRegister(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("register", "register -u usuario -e email [-p contraseña]")
	var in dto.RegisterRequest
	fs.StringVarP(&in.Username, "username", "u", "", "nombre de usuario")
	fs.StringVarP(&in.Email, "email", "e", "", "email")
	fs.StringVarP(&in.Password, "password", "p", "", "contraseña (se pide si falta)")
	fs.StringVar(&in.FirstName, "first-name", "", "nombre")
	fs.StringVar(&in.LastName, "last-name", "", "apellido")
	if err := parse(fs, args); err != nil {
		return err
	}
	if in.Password == "" {
		in.Password = a.prompt("Contraseña: ")
		in.PasswordConfirm = a.prompt("Repita la contraseña: ")
	} else {
		in.PasswordConfirm = in.Password
	}

	user, err := a.auth.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Usuario %s creado; inicie sesión con `stockctl login`\n", user.Username)
	return nil
}
