package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newGroupCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups and their members",
	}

	cmd.AddCommand(newGroupCreateCmd(client))
	cmd.AddCommand(newGroupGetCmd(client))
	cmd.AddCommand(newGroupDeleteCmd(client))
	cmd.AddCommand(newGroupAddMemberCmd(client))
	cmd.AddCommand(newGroupRemoveMemberCmd(client))
	return cmd
}

func newGroupCreateCmd(client *Client) *cobra.Command {
	var (
		id      string
		info    string
		members []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{}
			if id != "" {
				body["id"] = id
			}
			if info != "" {
				body["additional_info"] = info
			}
			if len(members) > 0 {
				body["members"] = members
			}
			var entity map[string]any
			if err := client.DoJSON(http.MethodPost, "/groups", nil, body, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Group id (generated when omitted)")
	cmd.Flags().StringVar(&info, "info", "", "Opaque additional info stored with the group")
	cmd.Flags().StringSliceVar(&members, "member", nil, "Initial member user id (repeatable)")
	return cmd
}

func newGroupGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <group-id>",
		Short: "Show a group and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			if err := client.DoJSON(http.MethodGet, "/groups/"+args[0], nil, nil, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}

func newGroupDeleteCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a group and every grant that references it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.DoJSON(http.MethodDelete, "/groups/"+args[0], nil, nil, nil)
		},
	}
}

func newGroupAddMemberCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <group-id> <user-id>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			path := "/groups/" + args[0] + "/users/" + args[1]
			if err := client.DoJSON(http.MethodPut, path, nil, nil, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}

func newGroupRemoveMemberCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <group-id> <user-id>",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity map[string]any
			path := "/groups/" + args[0] + "/users/" + args[1]
			if err := client.DoJSON(http.MethodDelete, path, nil, nil, &entity); err != nil {
				return err
			}
			return printEntity(cmd, entity)
		},
	}
}
