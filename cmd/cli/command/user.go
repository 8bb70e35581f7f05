package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User account commands",
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().CreateUser(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Created user %d: %s\n", user.ID, user.Username)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := newClient().ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if users.Total == 0 {
			warnColor.Fprintln(out, "No users found.")
			return nil
		}
		for _, u := range users.Items {
			fmt.Fprintf(out, "%d\t%s\n", u.ID, u.Username)
		}
		return nil
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get [user_id]",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user id", args[0])
		if err != nil {
			return err
		}
		user, err := newClient().GetUser(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", user.ID, user.Username)
		return nil
	},
}

var userBooksCmd = &cobra.Command{
	Use:   "books [user_id]",
	Short: "List the books a user holds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user id", args[0])
		if err != nil {
			return err
		}
		books, err := newClient().UserBooks(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list held books: %w", err)
		}

		out := cmd.OutOrStdout()
		if books.Total == 0 {
			fmt.Fprintf(out, "User %d holds no books.\n", id)
			return nil
		}
		fmt.Fprintf(out, "User %d holds %d book(s):\n", id, books.Total)
		for _, b := range books.Items {
			fmt.Fprintf(out, "%d\t%s\t%s\n", b.ID, b.Title, b.Author)
		}
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [user_id]",
	Short: "Delete your own account",
	Long:  `Delete a user. --as names the requesting user and must match the target; users holding books cannot be deleted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetID, err := parseID("user id", args[0])
		if err != nil {
			return err
		}
		requesterID, _ := cmd.Flags().GetInt64("as")
		if requesterID == 0 {
			requesterID = targetID
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Delete user %d? [y/N] ", targetID)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				warnColor.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		user, err := newClient().DeleteUser(cmd.Context(), requesterID, targetID)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Deleted user %d: %s\n", user.ID, user.Username)
		return nil
	},
}

func init() {
	userDeleteCmd.Flags().Int64("as", 0, "id of the requesting user (defaults to the target)")
	userDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userBooksCmd)
	userCmd.AddCommand(userDeleteCmd)
}
