package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newObjectCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Manage protected objects",
	}

	cmd.AddCommand(newObjectCreateCmd(client))
	cmd.AddCommand(newObjectGetCmd(client))
	cmd.AddCommand(newObjectDeleteCmd(client))
	cmd.AddCommand(newObjectTypeCreateCmd(client))
	return cmd
}

func newObjectCreateCmd(client *Client) *cobra.Command {
	var (
		id       string
		name     string
		typeName string
		info     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a protected object",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{"type": typeName}
			if id != "" {
				body["id"] = id
			}
			if name != "" {
				body["name"] = name
			}
			if info != "" {
				body["additional_info"] = info
			}
			var entity map[string]any
			if err := client.DoJSON(http.MethodPost, "/objects", nil, body, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Object id (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Human-readable object name")
	cmd.Flags().StringVar(&typeName, "type", "", "Object type (the permission set governing it)")
	cmd.Flags().StringVar(&info, "info", "", "Opaque additional info stored with the object")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newObjectGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <object-id>",
		Short: "Show a protected object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			if err := client.DoJSON(http.MethodGet, "/objects/"+args[0], nil, nil, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}

func newObjectDeleteCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <object-id>",
		Short: "Delete an object and its access control entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.DoJSON(http.MethodDelete, "/objects/"+args[0], nil, nil, nil)
		},
	}
}

func newObjectTypeCreateCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "create-type <name>",
		Short: "Create an object type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			body := map[string]string{"name": args[0]}
			if err := client.DoJSON(http.MethodPost, "/object_types", nil, body, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}
