// Package cli implements the acmctl command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
				errObj["code"] = apiErr.Code
			}
			_ = PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host     string
		user     string
		password string
		token    string
		output   string
		profile  string
	)

	client := NewClient("http://localhost:9022", "", "", "")

	rootCmd := &cobra.Command{
		Use:           "acmctl",
		Short:         "Access Control Manager CLI",
		Long:          "Command-line interface for the Access Control Manager API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}

			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("ACM_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("user") {
				if v := os.Getenv("ACM_CLI_USER"); v != "" {
					user = v
				} else if p.User != "" {
					user = p.User
				}
			}
			if !cmd.Flags().Changed("password") {
				if v := os.Getenv("ACM_CLI_PASSWORD"); v != "" {
					password = v
				} else if p.Password != "" {
					password = p.Password
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("ACM_TOKEN"); v != "" {
					token = v
				} else if p.Token != "" {
					token = p.Token
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("ACM_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			if output != "" && output != "detail" && output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'detail' or 'json'", output)
			}

			client.BaseURL = host
			client.User = user
			client.Password = password
			client.Token = token
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:9022", "API host URL")
	rootCmd.PersistentFlags().StringVar(&user, "user", "acm", "Basic auth user")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Basic auth password")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "JWT token for authentication")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "detail", "Output format (detail, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")

	rootCmd.AddCommand(newUserCmd(client))
	rootCmd.AddCommand(newGroupCmd(client))
	rootCmd.AddCommand(newPermissionSetCmd(client))
	rootCmd.AddCommand(newObjectCmd(client))
	rootCmd.AddCommand(newAccessCmd(client))
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}

// printEntity renders an API response either as JSON or as a detail listing,
// honoring the persistent --output flag.
func printEntity(cmd *cobra.Command, entity map[string]any) error {
	output, _ := cmd.Root().PersistentFlags().GetString("output")
	if output == "json" {
		return PrintJSON(os.Stdout, entity)
	}
	PrintDetail(os.Stdout, entity)
	return nil
}
