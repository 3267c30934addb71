// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doatroca/troca/internal/session"
)

var (
	registerName string
	registerCity string
)

// loginCmd signs in and persists the session.
var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and persist the session",
	Long: `Sign in against the configured backend.

The session is only persisted when both the token grant and the profile fetch
succeed; on any failure nothing is stored and the previous session is gone.`,
	Args: cobra.ExactArgs(2),
	RunE: runLogin,
}

// registerCmd creates a new account.
var registerCmd = &cobra.Command{
	Use:   "register <email> <password>",
	Short: "Create a new account",
	Long: `Create a new account. Registration never signs you in; run 'troca login'
afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

// logoutCmd discards the session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session",
	Long:  `Discard the in-memory and persisted session. Never fails.`,
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd shows the signed-in profile.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (optional)")
	registerCmd.Flags().StringVar(&registerCity, "city", "", "city (optional)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	signedIn, err := application.manager.Login(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", signedIn.User.Email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	input := session.RegistrationInput{
		Email:    args[0],
		Password: args[1],
		Name:     registerName,
		City:     registerCity,
	}
	if err := application.manager.Register(cmd.Context(), input); err != nil {
		return err
	}

	fmt.Printf("Account created for %s. Run '%s login' to sign in.\n", input.Email, rootCmd.Use)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	application.manager.Logout(cmd.Context())
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	current, err := application.requireSession(cmd.Context())
	if err != nil {
		return err
	}

	user := current.User
	fmt.Printf("Email: %s\n", user.Email)
	if user.Name != "" {
		fmt.Printf("Name:  %s\n", user.Name)
	}
	if user.City != "" {
		fmt.Printf("City:  %s\n", user.City)
	}
	return nil
}
