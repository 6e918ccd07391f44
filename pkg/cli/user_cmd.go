package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newUserCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCmd(client))
	cmd.AddCommand(newUserGetCmd(client))
	return cmd
}

func newUserCreateCmd(client *Client) *cobra.Command {
	var info string

	cmd := &cobra.Command{
		Use:   "create <user-id>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if info != "" {
				body = map[string]string{"additional_info": info}
			}
			var entity map[string]any
			if err := client.DoJSON(http.MethodPost, "/users/"+args[0], nil, body, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}

	cmd.Flags().StringVar(&info, "info", "", "Opaque additional info stored with the user")
	return cmd
}

func newUserGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			if err := client.DoJSON(http.MethodGet, "/users/"+args[0], nil, nil, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}
