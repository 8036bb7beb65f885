package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/timetable-import/internal/layout"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
)

func parseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract courses without storing them",
	}
	cmd.AddCommand(parseTokensCmd(a), parseReplyCmd(a))
	return cmd
}

// tokenFile accepts either a bare annotation array or an object with a page size.
type tokenFile struct {
	Annotations []layout.Annotation `json:"annotations"`
	Page        layout.Page         `json:"page"`
}

func parseTokensCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		page   layout.Page
	)
	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Extract courses from OCR word boxes (JSON, '-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			tf, err := decodeTokenFile(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if page.Width > 0 && page.Height > 0 {
				tf.Page = page
			}
			res := a.importer().FromAnnotations(tf.Annotations, tf.Page)
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().Float64Var(&page.Width, "page-width", 0, "image width in pixels (default: token extent)")
	cmd.Flags().Float64Var(&page.Height, "page-height", 0, "image height in pixels (default: token extent)")
	return cmd
}

func parseReplyCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "reply FILE",
		Short: "Extract courses from a vision model reply ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res := a.importer().FromReply(string(data))
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func decodeTokenFile(data []byte) (tokenFile, error) {
	var tf tokenFile
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &tf.Annotations)
		return tf, err
	}
	err := json.Unmarshal(data, &tf)
	return tf, err
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func printResult(w io.Writer, res pipeline.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprint(w, renderCourses(res.Courses))
	fmt.Fprintln(w, renderStats(res.Stats))
	return nil
}
