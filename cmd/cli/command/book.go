package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book catalogue and lending commands",
	Long:  `Add and list books, look up their holder, and sign them out or return them`,
}

var bookAddCmd = &cobra.Command{
	Use:   "add [title] [author]",
	Short: "Add a book to the catalogue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := newClient().AddBook(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to add book: %w", err)
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Added book %d: %s by %s\n", book.ID, book.Title, book.Author)
		return nil
	},
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books, optionally filtered by title and author",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")

		books, err := newClient().ListBooks(cmd.Context(), title, author)
		if err != nil {
			return fmt.Errorf("failed to list books: %w", err)
		}

		out := cmd.OutOrStdout()
		if books.Total == 0 {
			warnColor.Fprintln(out, "No books found.")
			return nil
		}
		fmt.Fprintf(out, "Found %d book(s):\n", books.Total)
		for _, b := range books.Items {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, holderText(b.Holder))
		}
		return nil
	},
}

var bookGetCmd = &cobra.Command{
	Use:   "get [book_id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("book id", args[0])
		if err != nil {
			return err
		}
		book, err := newClient().GetBook(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", book.ID, book.Title, book.Author, holderText(book.Holder))
		return nil
	},
}

var bookHolderCmd = &cobra.Command{
	Use:   "holder [book_id]",
	Short: "Show who holds a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("book id", args[0])
		if err != nil {
			return err
		}
		holder, err := newClient().BookHolder(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get holder: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Book %d is %s\n", holder.BookID, holderText(holder.Holder))
		return nil
	},
}

var bookToggleCmd = &cobra.Command{
	Use:   "toggle [book_id]",
	Short: "Sign a book out to a user, or return it if the user holds it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := parseID("book id", args[0])
		if err != nil {
			return err
		}
		userID, _ := cmd.Flags().GetInt64("user")
		if userID < 1 {
			return fmt.Errorf("--user is required")
		}

		res, err := newClient().ToggleBook(cmd.Context(), bookID, userID)
		if err != nil {
			return fmt.Errorf("failed to toggle book: %w", err)
		}

		out := cmd.OutOrStdout()
		if res.Action == "returned" {
			okColor.Fprintf(out, "User %d returned book %d (%s)\n", userID, res.Book.ID, res.Book.Title)
			return nil
		}
		okColor.Fprintf(out, "User %d signed out book %d (%s)\n", userID, res.Book.ID, res.Book.Title)
		return nil
	},
}

func init() {
	bookListCmd.Flags().String("title", "", "exact title to match")
	bookListCmd.Flags().String("author", "", "exact author to match")
	bookToggleCmd.Flags().Int64("user", 0, "id of the user signing out or returning the book")

	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookGetCmd)
	bookCmd.AddCommand(bookHolderCmd)
	bookCmd.AddCommand(bookToggleCmd)
}
