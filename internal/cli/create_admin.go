package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"bookstore/internal/infra/db"
	infraRepo "bookstore/internal/infra/repository"
	"bookstore/internal/infra/util"
	auth "bookstore/internal/usecase/auth_usecase"
	"bookstore/internal/validator"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type createAdminOptions struct {
	username  string
	email     string
	firstName string
	lastName  string
}

// 管理者は画面から作れないのでCLIで作る
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createAdminOptions{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			gdb, err := db.Connect(rootOpts.Config)
			if err != nil {
				return err
			}

			users := infraRepo.NewUserGormRepository(gdb)
			uc := auth.NewRegisterUserUsecase(
				infraRepo.NewTxManagerGorm(gdb),
				validator.NewAuthValidator(users),
				auth.NewBcryptPasswordHasher(12),
				util.RealClock{},
			)
			out, err := uc.CreateAdmin(cmd.Context(), auth.RegisterUserInput{
				Username:  opts.username,
				Password:  password,
				FirstName: opts.firstName,
				LastName:  opts.lastName,
				Email:     opts.email,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", out.User.Username, out.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "login name")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "User", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// 端末ならマスク入力、パイプなら1行読む
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
