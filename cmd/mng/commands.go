package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/db"
	infraRepo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "mng",
		Short:        "GMICE shop maintenance",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(open),
		newCreateSuperuserCmd(open),
		newImportDataCmd(open),
		newReindexCmd(open),
	)
	return root
}

// withEnv opens the environment for the duration of a command.
func withEnv(open opener, run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := open()
		if err != nil {
			return err
		}
		defer e.close()
		return run(cmd, args, e)
	}
}

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: withEnv(open, func(cmd *cobra.Command, _ []string, e *env) error {
			if err := db.Migrate(e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		}),
	}
}

func newCreateSuperuserCmd(open opener) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an active admin account",
		Args:  cobra.NoArgs,
		RunE: withEnv(open, func(cmd *cobra.Command, _ []string, e *env) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if email == "" {
				fmt.Fprint(out, "Email: ")
				line, err := readLine(in)
				if err != nil {
					return err
				}
				email = line
			}
			email = usecase.NormalizeEmail(email)
			if !usecase.IsEmailLike(email) {
				return errors.New("email is invalid")
			}

			users := infraRepo.NewUserGormRepository(e.db)
			if _, err := users.FindByEmail(cmd.Context(), email); err == nil {
				return errors.New(usecase.MsgEmailTaken)
			}

			password, err := promptPassword(cmd.InOrStdin(), in, out, "Password: ")
			if err != nil {
				return err
			}
			again, err := promptPassword(cmd.InOrStdin(), in, out, "Password (again): ")
			if err != nil {
				return err
			}
			if password != again {
				return errors.New("passwords do not match")
			}

			uc := usecase.NewUserAdminUsecase(users, e.hasher, e.log)
			user, err := uc.CreateSuperuser(cmd.Context(), email, password)
			if err != nil {
				return plainError(err)
			}
			fmt.Fprintf(out, "Superuser %s created (id=%d).\n", user.Email, user.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "superuser email")
	return cmd
}

func newImportDataCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import-data <csv> <image-base-url>",
		Short: "Import products, brands and tags from a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(open, func(cmd *cobra.Command, args []string, e *env) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			uc := usecase.NewCatalogImportUsecase(
				infraRepo.NewProductGormRepository(e.db),
				infraRepo.NewTagGormRepository(e.db),
				infraRepo.NewBrandGormRepository(e.db),
				e.synchronizer(),
				e.log,
			)
			report, err := uc.Import(cmd.Context(), f, args[1])
			if err != nil {
				return plainError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		}),
	}
}

func newReindexCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the product search index",
		Args:  cobra.NoArgs,
		RunE: withEnv(open, func(cmd *cobra.Command, _ []string, e *env) error {
			if e.store == nil {
				return errSearchDisabled
			}
			if err := e.synchronizer().ReindexAll(cmd.Context(), search.ProductIndex); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product index rebuilt.")
			return nil
		}),
	}
}

// promptPassword hides input on a terminal and falls back to a plain line read.
func promptPassword(src io.Reader, buf *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if f, ok := src.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
	return readLine(buf)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// plainError drops the usecase wrapper so the CLI prints only the message.
func plainError(err error) error {
	if ue, ok := usecase.AsError(err); ok && ue.Kind != usecase.KindInternal {
		return errors.New(ue.Message)
	}
	return err
}
