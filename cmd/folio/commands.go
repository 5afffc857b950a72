package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/five82/folio/internal/app"
	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/borrowing"
	"github.com/five82/folio/internal/library"
	"github.com/five82/folio/internal/logging"
	"github.com/five82/folio/internal/logtail"
)

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withEnv(func(env *app.Env) error {
				in := bufio.NewReader(cmd.InOrStdin())
				if strings.TrimSpace(email) == "" {
					fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
					line, err := readLine(in)
					if err != nil {
						return fmt.Errorf("read email: %w", err)
					}
					email = line
				}
				password, err := readPassword(cmd, in)
				if err != nil {
					return err
				}

				resp, err := env.Client.Login(cmd.Context(), email, password)
				if err != nil {
					env.Logger.Warn("login failed", "email", email, "error", err)
					return errors.New(apperr.UserMessage(err, "login failed"))
				}
				sess, err := env.Session.Login(resp)
				if err != nil {
					return fmt.Errorf("store session: %w", err)
				}
				env.Logger.Info("signed in", "role", sess.Role.String())

				name := sess.Name
				if name == "" {
					name = sess.Email
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", name, env.Session.Subject().Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

// readPassword reads without echo from a terminal, or a single line when
// stdin is piped.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withEnv(func(env *app.Env) error {
				if !env.Session.Current().Authenticated() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				if err := env.Client.Logout(cmd.Context()); err != nil {
					env.Logger.Warn("remote logout failed", "error", err)
				}
				if err := env.Session.Logout(); err != nil {
					return fmt.Errorf("clear session: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session and its permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withEnv(func(env *app.Env) error {
				out := cmd.OutOrStdout()
				sess := env.Session.Current()
				if !sess.Authenticated() {
					fmt.Fprintln(out, "Not logged in")
				} else {
					fmt.Fprintf(out, "Name:  %s\n", orDash(sess.Name))
					fmt.Fprintf(out, "Email: %s\n", orDash(sess.Email))
					fmt.Fprintf(out, "Role:  %s\n", env.Session.Subject().Role)
				}
				fmt.Fprintf(out, "Can:   %s\n", strings.Join(env.Permissions().Labels(), ", "))
				return nil
			})
		},
	}
}

func newBooksCmd(flags *globalFlags) *cobra.Command {
	var query library.BookQuery
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withEnv(func(env *app.Env) error {
				page, err := env.Client.FetchBooks(cmd.Context(), query)
				if err != nil {
					return remoteError(env, err, "failed to load books")
				}
				out := cmd.OutOrStdout()
				if len(page.Books) == 0 {
					fmt.Fprintln(out, "No books found")
					return nil
				}
				rows := make([][]string, 0, len(page.Books))
				for _, b := range page.Books {
					rows = append(rows, []string{
						strconv.FormatInt(b.ID, 10), b.Title, b.Author, orDash(b.Genre), strconv.Itoa(b.CopiesCount),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "TITLE", "AUTHOR", "GENRE", "COPIES"}, rows))
				fmt.Fprintf(out, "Page %d of %d (%d books)\n", page.Meta.CurrentPage, page.Meta.TotalPages, page.Meta.TotalEntries)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&query.Title, "title", "", "filter by title")
	f.StringVar(&query.Author, "author", "", "filter by author")
	f.StringVar(&query.Genre, "genre", "", "filter by genre")
	f.IntVar(&query.Page, "page", 1, "page number")
	return cmd
}

var _ pflag.Value = (*borrowing.Scope)(nil)

func newBorrowingsCmd(flags *globalFlags) *cobra.Command {
	scope := borrowing.ScopeAll
	cmd := &cobra.Command{
		Use:   "borrowings",
		Short: "List borrowings sorted by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withEnv(func(env *app.Env) error {
				if !env.Session.Current().Authenticated() {
					return errors.New("not logged in (run folio login)")
				}
				if !cmd.Flags().Changed("scope") {
					scope = env.Prefs.Scope
				}

				records, err := env.Client.FetchBorrowings(cmd.Context())
				if err != nil {
					return remoteError(env, err, "failed to load borrowings")
				}

				now := env.Now()
				entries := borrowing.View(records, scope, now)
				showBorrower := env.Permissions().ViewAllBorrowings
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "No borrowings (%s)\n", scope.Label())
					return nil
				}

				headers := []string{"ID", "TITLE", "AUTHOR", "DUE", "STATUS"}
				if showBorrower {
					headers = append(headers, "BORROWER")
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					due := "-"
					if e.HasDue {
						due = e.Due.Format("Jan 2, 2006")
					}
					row := []string{
						strconv.FormatInt(e.Record.ID, 10), e.Record.Title(), e.Record.Author(), due, e.Status.Label(),
					}
					if showBorrower {
						row = append(row, e.Record.Borrower())
					}
					rows = append(rows, row)
				}
				fmt.Fprintln(out, renderTable(headers, rows))

				sum := borrowing.Summarize(records, now)
				fmt.Fprintf(out, "%d total, %d active, %d overdue, %d returned\n", sum.Total, sum.Active, sum.Overdue, sum.Returned)
				return nil
			})
		},
	}
	cmd.Flags().Var(&scope, "scope", "all, active, overdue or returned (default from preferences)")
	return cmd
}

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the folio log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withEnv(func(env *app.Env) error {
				recs, err := logtail.Tail(env.Config.LogFile, lines, logging.ParseLevel(level))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, rec := range recs {
					fmt.Fprintln(out, logtail.Format(rec))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of log lines to read")
	cmd.Flags().StringVar(&level, "level", "info", "minimum level (debug, info, warn, error)")
	return cmd
}

// remoteError logs a failed call and turns it into a user-facing error. A
// rejected credential clears the stored session.
func remoteError(env *app.Env, err error, fallback string) error {
	env.Logger.Warn("library request failed", "error", err)
	if apperr.Is(err, apperr.CodeAuthRequired) {
		if clearErr := env.Session.Logout(); clearErr != nil {
			env.Logger.Error("failed to clear session", "error", clearErr)
		}
		return errors.New("session expired, please log in again")
	}
	return errors.New(apperr.UserMessage(err, fallback))
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
