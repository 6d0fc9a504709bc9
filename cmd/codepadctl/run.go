package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	v1 "codepad/api/execute/v1"
	"codepad/internal/language"
)

// exitError 让 run 以用户程序的退出码结束
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("program exited with code %d", e.code)
}

func newRunCmd() *cobra.Command {
	var (
		lang    string
		version string
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a source file through the gateway",
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

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			resp, err := execute(ctx, serverURL, string(code), lang, version)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), resp.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), resp.Stderr)
			if resp.ExitCode != 0 {
				return &exitError{code: resp.ExitCode}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Language or alias (default: detected from the file extension)")
	cmd.Flags().StringVar(&version, "version", "", "Explicit language version")

	return cmd
}

func detectLanguage(path string) string {
	return language.MustNewRegistry(language.Defaults()).DetectByExtension(path)
}

func execute(ctx context.Context, base, code, lang, version string) (*v1.ExecuteResp, error) {
	req := v1.ExecuteReq{SourceCode: code, LanguageToken: lang}
	if version != "" {
		req.RequestedVersion = &version
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 16<<20))
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		var e v1.ErrorResp
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			switch e.Kind {
			case v1.KindRateLimited:
				return nil, fmt.Errorf("rate limited, retry after %ds", e.RetryAfter)
			case v1.KindUnknownLanguage:
				token := ""
				if e.Token != nil {
					token = *e.Token
				}
				return nil, fmt.Errorf("unknown language %q", token)
			}
			return nil, fmt.Errorf("%s (status %d)", e.Error, httpResp.StatusCode)
		}
		return nil, fmt.Errorf("gateway returned status %d", httpResp.StatusCode)
	}

	var resp v1.ExecuteResp
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &resp, nil
}
