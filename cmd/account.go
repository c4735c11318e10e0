package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/pages"
	"github.com/s0up4200/cinestream/query"
)

var username string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthenticate(cmd, true)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthenticate(cmd, false)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
}

func runAuthenticate(cmd *cobra.Command, register bool) error {
	name, password, err := promptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr(), username)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	authenticate := a.client.Login
	if register {
		authenticate = a.client.Register
	}

	user, err := authenticate(cmd.Context(), name, password)
	if err != nil {
		return err
	}

	logger.Debug().Int64("userId", user.ID).Msg("Signed in")
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(*user))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.client.SignedIn() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := a.client.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuccess("Signed out"))
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.cache.Mount()
	defer scope.Unmount()

	user := movies.UseUser(scope)
	err = settle(cmd.Context(), scope, pages.Func(func() query.State {
		return user.Result().State()
	}), "user")
	if err != nil {
		var unauthorized interface{ IsUnauthorized() bool }
		if errors.As(err, &unauthorized) && unauthorized.IsUnauthorized() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return nil
		}
		return err
	}

	u := user.Result().Data
	if u == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(*u))
	return nil
}

// promptCredentials asks for whatever is missing. The password is read
// without echo when stdin is a terminal.
func promptCredentials(in io.Reader, out io.Writer, name string) (string, string, error) {
	reader := bufio.NewReader(in)

	if name == "" {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		name = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if name == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return name, password, nil
}
