package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/anzhiyu-c/anheyu-cli/internal/tasks"
)

const dumpFile = "api_dump.json"

// APIGet makes a direct GET request to the backend and prints the unwrapped data.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	pairs, err := parsePairs(cmd.StringSlice("query"))
	if err != nil {
		return err
	}
	query := url.Values{}
	for k, v := range pairs {
		query.Set(k, v)
	}

	r.logger.Info("GET request", "path", path)

	var data json.RawMessage
	if err := r.client.Get(ctx, path, query, &data); err != nil {
		return err
	}
	return r.writeJSON(orNull(data), !cmd.Bool("json"))
}

// APIPost makes a direct POST request with a JSON body.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}

	r.logger.Info("POST request", "path", path)

	var result json.RawMessage
	if err := r.client.Post(ctx, path, json.RawMessage(data), &result); err != nil {
		return err
	}
	return r.writeJSON(orNull(result), true)
}

// APIDump fetches every public and admin listing endpoint into one document.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("dumping API state")
	r.writePlain("Fetching backend state...\n\n")

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.writePlain("[%d/%d] %s\n", u.Step, u.Total, u.Message)
		}
	}()

	dump, err := r.engine().Dump(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, e := range dump.Errors {
		r.logger.Warn("endpoint failed", "endpoint", e.Endpoint, "error", e.Error)
	}
	r.writePlain("\n✓ Dump complete (%d errors)\n\n", len(dump.Errors))

	if cmd.Bool("save") {
		output := cmd.String("output")
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", output)
			r.writePlain("✓ Dump saved to %s\n\n", output)
		}
	}

	return r.writeJSON(dump, cmd.Bool("pretty"))
}

func orNull(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}
	return data
}

// apiCommand handles direct API calls and the state dump
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the anheyu backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response data as JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Query parameter as KEY=VALUE (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Dump site config, categories, wallpapers and albums",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to a file",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Dump file path used with --save",
						Value:   dumpFile,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}
