package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/todolist/internal/app"
	"github.com/mmynk/todolist/internal/auth"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runStatus,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	RunE:  runSignUp,
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	RunE:  runLogout,
}

func init() {
	signupCmd.Flags().String("username", "", "login name")
	signupCmd.Flags().String("email", "", "contact email")
	signupCmd.Flags().String("password", "", "password (6+ chars, a digit and one of !@#$%^&*)")
	signupCmd.Flags().String("confirm-password", "", "password again")
	signupCmd.Flags().String("name", "", "display name")
	signupCmd.Flags().String("phone", "", "phone number")
	signupCmd.Flags().String("address", "", "postal address")
	signupCmd.Flags().Bool("accept-terms", false, "accept the terms and conditions")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err := e.ctrl.Start(cmd.Context())
	out := cmd.OutOrStdout()
	if st.Session.IsLoggedIn {
		fmt.Fprintf(out, "Logged in as %s\n", st.Session.Email)
	} else {
		fmt.Fprintln(out, "Logged out")
	}
	fmt.Fprintf(out, "Session: %s\n", e.location)
	if err != nil {
		return result(out, st, err)
	}
	return nil
}

func runSignUp(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	flags := cmd.Flags()
	var form auth.SignUpForm
	form.Username, _ = flags.GetString("username")
	form.Email, _ = flags.GetString("email")
	form.Password, _ = flags.GetString("password")
	form.ConfirmPassword, _ = flags.GetString("confirm-password")
	form.Name, _ = flags.GetString("name")
	form.Phone, _ = flags.GetString("phone")
	form.Address, _ = flags.GetString("address")
	form.AcceptedTerms, _ = flags.GetBool("accept-terms")

	st := e.ctrl.GoToSignUp(app.State{})
	st, err = e.ctrl.SignUp(cmd.Context(), st, form)
	return result(cmd.OutOrStdout(), st, err)
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st := e.ctrl.GoToLogin(app.State{})
	st, err = e.ctrl.Login(cmd.Context(), st, args[0], args[1])
	return result(cmd.OutOrStdout(), st, err)
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if _, err := e.ctrl.Logout(cmd.Context(), app.State{}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
