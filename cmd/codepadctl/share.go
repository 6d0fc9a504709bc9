package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codepad/pkg/sharecode"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode or decode share tokens",
	}
	cmd.AddCommand(newShareEncodeCmd())
	cmd.AddCommand(newShareDecodeCmd())
	return cmd
}

func newShareEncodeCmd() *cobra.Command {
	var (
		lang string
		base string
	)

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Encode a source file into a share token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if lang == "" {
				lang = detectLanguage(args[0])
				if lang == "" {
					return fmt.Errorf("cannot detect language of %s, pass --lang", args[0])
				}
			}
			token, err := sharecode.Encode(string(code), lang)
			if err != nil {
				return err
			}
			if base != "" {
				fmt.Fprintln(cmd.OutOrStdout(), sharecode.URL(base, token))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Language (default: detected from the file extension)")
	cmd.Flags().StringVar(&base, "base-url", "", "Print a full share URL on this base")

	return cmd
}

func newShareDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Decode a share token and print the language and code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := sharecode.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "// language: %s\n%s", payload.Language, payload.Code)
			return nil
		},
	}
}
