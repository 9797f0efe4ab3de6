package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// action runs once per iteration. Text goes to out; the returned payload is
// logged as JSON and printed instead of the text with --json.
type action func(ctx context.Context, out io.Writer) (any, error)

// repeat runs fn --repeat times, sleeping --interval between runs.
func repeat(cmd *cobra.Command, name string, fn action) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	times, _ := cmd.Flags().GetInt("repeat")
	if times < 1 {
		times = 1
	}
	v := verbosity(cmd)
	log := state.logger

	// Progress lines would corrupt the JSON stream, they only reach the log then.
	progress := out
	if asJSON {
		progress = io.Discard
	}

	for i := 0; i < times; i++ {
		if v > 0 {
			width := len(fmt.Sprint(times))
			line := fmt.Sprintf("Executing iteration %*d/%d", width, i+1, times)
			log.Info(line)
			fmt.Fprintln(progress, line)
		}

		var text strings.Builder
		payload, err := fn(ctx, &text)
		state.metrics.IncCommand(name, err == nil)
		if err != nil {
			log.WithError(err).Errorf("%s failed", name)
		}

		encoded, jsonErr := json.Marshal(payload)
		if jsonErr != nil {
			return fmt.Errorf("encoding result: %w", jsonErr)
		}
		log.Info("JSON:" + string(encoded))

		if asJSON {
			fmt.Fprintln(out, string(encoded))
		} else {
			io.WriteString(out, text.String())
		}

		if i < times-1 {
			if err := pause(ctx, cmd, progress, v); err != nil {
				log.Info(strings.Repeat("=", 64))
				return err
			}
			fmt.Fprintln(progress, strings.Repeat("-", 32))
		}
		log.Info(strings.Repeat("=", 64))
	}
	return nil
}

func pause(ctx context.Context, cmd *cobra.Command, out io.Writer, v int) error {
	d := interval(cmd)
	if d == 0 {
		if v > 0 {
			state.logger.Info("No execution interval specified")
			fmt.Fprintln(out, "No execution interval specified")
		}
		return ctx.Err()
	}
	if v > 0 {
		s := "s"
		if d == time.Second {
			s = ""
		}
		line := fmt.Sprintf("Delaying execution for %d second%s", int(d/time.Second), s)
		state.logger.Info(line)
		fmt.Fprintln(out, line)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// resultLine is what the boolean commands print.
func resultLine(ok bool) string {
	if ok {
		return "Success\n"
	}
	return "Error\n"
}
