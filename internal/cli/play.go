package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"cricket-stats-game/internal/app"
	"cricket-stats-game/internal/config"
	"cricket-stats-game/internal/domain"
	"cricket-stats-game/internal/infra/memory"
	"cricket-stats-game/internal/infra/sheet"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a game in the terminal against a sheet file or URL.
func NewPlayCmd(opts *rootOptions) *cobra.Command {
	var file, date string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a daily challenge in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			var loader memory.RosterLoader
			switch {
			case file != "":
				loader = sheet.NewFileLoader(file)
			case cfg.Sheet.URL != "":
				loader = sheet.NewLoader(cfg.Sheet.URL, config.TTLDuration(cfg.Sheet.Timeout, 10*time.Second))
			case cfg.Sheet.File != "":
				loader = sheet.NewFileLoader(cfg.Sheet.File)
			default:
				return errors.New("no sheet configured: pass --file or set sheet.url")
			}

			rosters := memory.NewRosterRepository(loader, time.Hour)
			service := app.NewGameService(memory.NewSessionStore(), rosters, app.WithLogger(logger))
			return playGame(cmd.Context(), service, date, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a sheet CSV export")
	cmd.Flags().StringVar(&date, "date", "", "challenge date (YYYY-MM-DD), defaults to today")
	return cmd
}

func playGame(ctx context.Context, service *app.GameService, date string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	state, err := service.Start(ctx, "", date)
	if err != nil {
		return err
	}
	defer service.End(ctx, state.GameID)

	fmt.Fprintf(out, "Cricket stats challenge for %s: %d players\n", state.Date, state.TotalQuestions)

	scanner := bufio.NewScanner(in)
	question := state.Question
	round := 1
	for question != nil {
		printQuestion(out, round, state.TotalQuestions, question)

		guess, ok := readGuess(scanner, out)
		if !ok {
			fmt.Fprintln(out, "\nGame abandoned.")
			return scanner.Err()
		}

		result, err := service.Submit(ctx, state.GameID, guess)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  Answer: %s  You: %s  +%d  %s  (score %d)\n",
			formatValue(result.CorrectAnswer), formatValue(result.UserAnswer),
			result.Points, result.Message, result.TotalScore)

		if result.Complete && result.Summary != nil {
			printSummary(out, *result.Summary)
		}
		question = result.Next
		round++
	}
	return nil
}

func printQuestion(out io.Writer, round, total int, q *domain.PublicQuestion) {
	fmt.Fprintf(out, "\n[%d/%d] %s", round, total, q.Name)
	if q.Country != "" || q.Role != "" {
		fmt.Fprintf(out, " (%s)", strings.Trim(q.Country+", "+q.Role, ", "))
	}
	fmt.Fprintf(out, "\n  %s, between 0 and %s\n", q.StatLabel, formatValue(q.MaxValue))
}

// readGuess prompts until a finite non-negative number is entered; false means input ended.
func readGuess(scanner *bufio.Scanner, out io.Writer) (float64, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return 0, false
		}
		raw := strings.ReplaceAll(strings.TrimSpace(scanner.Text()), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil && v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return v, true
		}
		fmt.Fprintln(out, "  enter a non-negative number")
	}
}

func printSummary(out io.Writer, s domain.GameSummary) {
	fmt.Fprintf(out, "\n%s %s\n", s.Performance.Label, strings.Repeat("*", s.Performance.Stars))
	fmt.Fprintf(out, "Total score: %d\n", s.TotalScore)
	fmt.Fprintf(out, "Average: %d  Accuracy: %d%%  Perfect answers: %d/%d\n",
		s.AverageScore, s.AccuracyPercentage, s.PerfectAnswers, s.TotalQuestions)
}

func formatValue(v float64) string {
	if domain.IsFractional(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
