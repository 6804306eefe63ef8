package user

import (
	"authd/cmd/user/create"

	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management",
		Long:  `Manage the users of authd.`,
	}

	userCmd.AddCommand(create.CreateCmd)

	return userCmd
}
