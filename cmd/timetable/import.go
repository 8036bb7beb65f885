package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/timetable-import/internal/async"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

type importFlags struct {
	owner   string
	mode    string
	hint    string
	replace bool
}

func (f *importFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.owner, "owner", "u", "", "owner the courses belong to")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(importer.ImageModeOCR), "how to read images: ocr or vision")
	cmd.Flags().StringVar(&f.hint, "hint", "", "extra context passed to the vision model")
	_ = cmd.MarkFlagRequired("owner")
}

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Extract courses and store them for an owner",
	}
	cmd.AddCommand(importImageCmd(a), importReplyCmd(a), importDirCmd(a), importWatchCmd(a))
	return cmd
}

func importImageCmd(a *app) *cobra.Command {
	var f importFlags
	cmd := &cobra.Command{
		Use:   "image PATH",
		Short: "Import a timetable image or PDF through OCR or the vision model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, repo, err := a.service(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			out, err := svc.ImportImage(ctx, importer.ImageRequest{
				OwnerID:         f.owner,
				Path:            args[0],
				Mode:            importer.ImageMode(f.mode),
				Hint:            f.hint,
				ReplaceExisting: f.replace,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(out))
			fmt.Fprint(cmd.OutOrStdout(), renderCourses(out.Courses))
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.replace, "replace", false, "replace the owner's existing courses")
	return cmd
}

func importReplyCmd(a *app) *cobra.Command {
	var f importFlags
	cmd := &cobra.Command{
		Use:   "reply FILE",
		Short: "Import a saved vision model reply ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			svc, repo, err := a.service(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			out, err := svc.ImportReply(ctx, importer.ReplyRequest{
				OwnerID:         f.owner,
				Reply:           string(data),
				ReplaceExisting: f.replace,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(out))
			fmt.Fprint(cmd.OutOrStdout(), renderCourses(out.Courses))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.owner, "owner", "u", "", "owner the courses belong to")
	cmd.Flags().BoolVar(&f.replace, "replace", false, "replace the owner's existing courses")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func importDirCmd(a *app) *cobra.Command {
	var (
		f          importFlags
		workers    int
		skipHidden bool
	)
	cmd := &cobra.Command{
		Use:   "dir ROOT",
		Short: "Import every timetable image under a directory, appending to the owner's courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, repo, err := a.service(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			var q *async.ProcessorQueue
			if workers > 1 {
				q = async.NewProcessorQueue(svc.HandleJob, a.logger,
					async.WithWorkers(workers),
					async.WithProcessTimeout(a.cfg.LLM.Timeout+time.Minute),
				)
				svc.SetQueue(q)
			}

			res, err := svc.ImportDirectory(ctx, importer.DirectoryRequest{
				OwnerID:    f.owner,
				RootPath:   args[0],
				Mode:       importer.ImageMode(f.mode),
				Hint:       f.hint,
				SkipHidden: skipHidden,
			})
			if q != nil {
				q.Shutdown(context.WithoutCancel(ctx))
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, r := range res.Results {
				switch {
				case r.Err != "":
					fmt.Fprintf(w, "%s %s\n", warnStyle.Render("failed"), r.Path+": "+r.Err)
				default:
					fmt.Fprintf(w, "%s %s: %s\n", okStyle.Render("ok"), r.Path, r.Message)
				}
			}
			s := res.Stats
			fmt.Fprintln(w, statsStyle.Render(fmt.Sprintf("%d scanned, %d matched, %d queued, %d imported, %d failed",
				s.Scanned, s.Matched, s.Queued, s.Succeeded, s.Failed)))
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "import files concurrently with this many workers")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip dotfiles and dot directories")
	return cmd
}

func importWatchCmd(a *app) *cobra.Command {
	var (
		f        importFlags
		workers  int
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch ROOT",
		Short: "Import timetable files as they are dropped into a directory (Ctrl-C to stop)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, repo, err := a.service(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			q := async.NewProcessorQueue(svc.HandleJob, a.logger,
				async.WithWorkers(workers),
				async.WithProcessTimeout(a.cfg.LLM.Timeout+time.Minute),
			)
			svc.SetQueue(q)
			defer q.Shutdown(context.WithoutCancel(ctx))

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("watching "+args[0]))
			return svc.WatchDirectory(ctx, importer.DirectoryRequest{
				OwnerID:    f.owner,
				RootPath:   args[0],
				Mode:       importer.ImageMode(f.mode),
				Hint:       f.hint,
				SkipHidden: true,
			}, debounce)
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 2, "concurrent imports")
	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "wait this long after the last write before importing")
	return cmd
}
