package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"venuecatalog/backend/internal/auth"
)

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password for the users file",
		Long: `Read a password from the first line of stdin and print its bcrypt hash,
ready for the password_hash field of AUTH_USERS_FILE.`,
		Args: cobra.NoArgs,
		RunE: runHashPassword,
	}
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
