package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pvcodes/tuf-judge-cli/internal/environment"
	"github.com/pvcodes/tuf-judge-cli/internal/judge"
	"github.com/pvcodes/tuf-judge-cli/internal/langs"
	"github.com/pvcodes/tuf-judge-cli/internal/lifecycle"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
	"github.com/pvcodes/tuf-judge-cli/internal/termout"
	"github.com/pvcodes/tuf-judge-cli/internal/validate"
)

// statusFetchLimit caps how many status checks run at once during listing.
// Distinct submission ids may be checked concurrently, but the backend is
// rate limited, so we keep the fan-out modest.
const statusFetchLimit = 4

func main() {
	cmd := &cli.Command{
		Name:  "tuf",
		Usage: "submit code to the remote judge and inspect the results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "judge backend base URL (overrides JUDGE_API_URL)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			submitCmd(),
			listCmd(),
			viewCmd(),
			statusCmd(),
			runCmd(),
			langsCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	return logger
}

func newJudgeClient(cmd *cli.Command, log *slog.Logger) *judge.Client {
	cfg := environment.ReadEnvConfig()
	baseURL := cfg.JudgeApiURL
	if v := cmd.String("api-url"); v != "" {
		baseURL = v
	}
	return judge.NewClient(baseURL, cfg.RequestTimeout, log)
}

func submitCmd() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "send a source file to the judge",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "username recorded with the submission",
			},
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "language name from the catalog (see `tuf langs`)",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "path to the source code file",
			},
			&cli.StringFlag{
				Name:  "stdin-file",
				Usage: "path to a file fed to the program as standard input",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := setupLogger(cmd)

			catalog, err := langs.Load()
			if err != nil {
				return err
			}

			draft := subm.Draft{
				Username: cmd.String("user"),
				Language: cmd.String("lang"),
			}
			if draft.Language != "" {
				lang, ok := catalog.ByName(draft.Language)
				if !ok {
					return fmt.Errorf("unknown language %q, accepted: %v", draft.Language, catalog.Names())
				}
				draft.Language = lang.Name
				draft.LanguageID = lang.ID
			}

			if path := cmd.String("file"); path != "" {
				code, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read source file: %w", err)
				}
				draft.SourceCode = string(code)
			}
			if path := cmd.String("stdin-file"); path != "" {
				stdin, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read stdin file: %w", err)
				}
				draft.StdInput = string(stdin)
			}

			if err := validate.Draft(draft); err != nil {
				var fieldErrs validate.FieldErrors
				if errors.As(err, &fieldErrs) {
					for _, fe := range fieldErrs {
						fmt.Fprintf(os.Stderr, "invalid %s: %s\n", fe.Field, fe.Message)
					}
				}
				return fmt.Errorf("draft is not valid")
			}

			client := newJudgeClient(cmd, log)
			id, err := client.Submit(ctx, draft)
			if err != nil {
				var rejected *judge.SubmitRejected
				if errors.As(err, &rejected) {
					return fmt.Errorf("submission rejected: %s", rejected.Reason)
				}
				return fmt.Errorf("something went wrong, please try again: %w", err)
			}

			fmt.Printf("submission successful with id %s\n", id)
			fmt.Printf("check it with: tuf status %s\n", id)
			return nil
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list historical submissions, most recent first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "only show submissions whose username contains this text",
			},
			&cli.BoolFlag{
				Name:  "status",
				Usage: "fetch the current execution status of each listed submission",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := setupLogger(cmd)
			client := newJudgeClient(cmd, log)

			subs, err := client.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("%w, please try again later", err)
			}

			if filter := cmd.String("user"); filter != "" {
				subs = filterByUsername(subs, filter)
			}
			if len(subs) == 0 {
				fmt.Println("no submissions")
				return nil
			}

			var statuses map[string]string
			if cmd.Bool("status") {
				statuses = fetchStatuses(ctx, client, subs)
			}

			termout.SubmissionTable(os.Stdout, subs, statuses)
			return nil
		},
	}
}

func filterByUsername(subs []subm.Submission, filter string) []subm.Submission {
	filtered := make([]subm.Submission, 0, len(subs))
	for _, s := range subs {
		if containsFold(s.Username, filter) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// fetchStatuses checks every listed submission concurrently, one request
// per id. A submission whose judge cannot be asked gets a placeholder
// instead of failing the whole listing.
func fetchStatuses(ctx context.Context, client *judge.Client, subs []subm.Submission) map[string]string {
	results := make([]string, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusFetchLimit)
	for i, s := range subs {
		i, s := i, s
		g.Go(func() error {
			st, err := client.CheckStatus(gctx, s.ID)
			if err != nil {
				results[i] = "judge unavailable"
				return nil
			}
			results[i] = st.StatusDesc
			return nil
		})
	}
	_ = g.Wait()

	statuses := make(map[string]string, len(subs))
	for i, s := range subs {
		statuses[s.ID] = results[i]
	}
	return statuses
}

func viewCmd() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "print the source code of a submission",
		ArgsUsage: "<submission-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := setupLogger(cmd)
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("a submission id is required")
			}

			client := newJudgeClient(cmd, log)
			subs, err := client.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("%w, please try again later", err)
			}

			for _, s := range subs {
				if s.ID == id {
					termout.PrintSubmission(os.Stdout, s)
					return nil
				}
			}
			return fmt.Errorf("no submission with id %s", id)
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "check the execution status of a submission",
		ArgsUsage: "<submission-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := setupLogger(cmd)
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("a submission id is required")
			}

			client := newJudgeClient(cmd, log)
			tracker := lifecycle.NewTracker(client)

			snap := tracker.Check(ctx, id)
			termout.PrintStatus(os.Stdout, id, snap)
			if snap.State == lifecycle.StateNotYetQueued {
				fmt.Printf("trigger it with: tuf run %s\n", id)
			}
			return nil
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "ask the judge to queue a submission it has not processed yet",
		ArgsUsage: "<submission-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := setupLogger(cmd)
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("a submission id is required")
			}

			client := newJudgeClient(cmd, log)
			tracker := lifecycle.NewTracker(client)

			// A run trigger queues duplicate executions if repeated, so it
			// is gated on a fresh check confirming the submission is still
			// waiting to be queued.
			snap := tracker.Check(ctx, id)
			if snap.State != lifecycle.StateNotYetQueued {
				termout.PrintStatus(os.Stdout, id, snap)
				if snap.State == lifecycle.StateJudgeUnavailable {
					return fmt.Errorf("cannot trigger a run right now")
				}
				fmt.Println("nothing to trigger: the judge has already picked this submission up")
				return nil
			}

			snap, err := tracker.TriggerRun(ctx, id)
			if err != nil {
				return err
			}
			if snap.State == lifecycle.StateJudgeUnavailable {
				termout.PrintStatus(os.Stdout, id, snap)
				return fmt.Errorf("cannot trigger a run right now")
			}

			fmt.Printf("run triggered for %s\n", id)
			fmt.Printf("check progress with: tuf status %s\n", id)
			return nil
		},
	}
}

func langsCmd() *cli.Command {
	return &cli.Command{
		Name:  "langs",
		Usage: "list the languages the judge accepts",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			catalog, err := langs.Load()
			if err != nil {
				return err
			}
			termout.LanguageTable(os.Stdout, catalog.All())
			return nil
		},
	}
}
