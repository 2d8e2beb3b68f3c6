package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/webfile/internal/api"
	"github.com/rohits-web03/webfile/internal/target"
)

func newTargetCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Encrypted upload target utilities",
	}
	cmd.AddCommand(newTargetEncryptCommand(s), newTargetDecryptCommand(s))
	return cmd
}

func (s *state) encryptor() (*target.Encryptor, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	idx, err := api.BuildIndex(cfg.Targets)
	if err != nil {
		return nil, err
	}
	return target.NewEncryptor(cfg.Secret, idx)
}

func newTargetEncryptCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <entity> <property>",
		Short: "Print the encrypted target for a configured entity property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := s.encryptor()
			if err != nil {
				return err
			}
			token, err := enc.Encrypt(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newTargetDecryptCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <token>",
		Short: "Print the configuration an encrypted target resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := s.encryptor()
			if err != nil {
				return err
			}
			cfg, err := enc.Decrypt(args[0])
			if err != nil {
				return err
			}
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(cfg)
		},
	}
}
