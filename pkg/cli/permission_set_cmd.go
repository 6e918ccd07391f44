package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newPermissionSetCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "permission-set",
		Aliases: []string{"ps"},
		Short:   "Manage permission sets",
	}

	cmd.AddCommand(newPermissionSetCreateCmd(client))
	cmd.AddCommand(newPermissionSetUpdateCmd(client))
	cmd.AddCommand(newPermissionSetGetCmd(client))
	return cmd
}

func permissionSetBody(name, info string, permissions []string) map[string]any {
	body := map[string]any{"name": name}
	if len(permissions) > 0 {
		body["permissions"] = permissions
	}
	if info != "" {
		body["additional_info"] = info
	}
	return body
}

func newPermissionSetCreateCmd(client *Client) *cobra.Command {
	var (
		info        string
		permissions []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a permission set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			body := permissionSetBody(args[0], info, permissions)
			if err := client.DoJSON(http.MethodPost, "/permission_sets", nil, body, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}

	cmd.Flags().StringSliceVar(&permissions, "permission", nil, "Permission name (repeatable)")
	cmd.Flags().StringVar(&info, "info", "", "Opaque additional info stored with the set")
	return cmd
}

func newPermissionSetUpdateCmd(client *Client) *cobra.Command {
	var (
		info        string
		permissions []string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Replace the permissions of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			body := permissionSetBody(args[0], info, permissions)
			if err := client.DoJSON(http.MethodPut, "/permission_sets", nil, body, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}

	cmd.Flags().StringSliceVar(&permissions, "permission", nil, "Permission name (repeatable)")
	cmd.Flags().StringVar(&info, "info", "", "Opaque additional info stored with the set")
	return cmd
}

func newPermissionSetGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a permission set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			if err := client.DoJSON(http.MethodGet, "/permission_sets/"+args[0], nil, nil, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}
