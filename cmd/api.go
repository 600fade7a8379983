package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// apiClient returns a raw client for --remote, defaulting to the configured server address.
func (r *Runner) apiClient(cmd *cli.Command) (*services.APIClient, error) {
	if err := r.loadConfig(cmd); err != nil {
		return nil, err
	}

	base := cmd.String("remote")
	if base == "" {
		base = "http://" + r.config.Server.Addr()
	}
	return services.NewAPIClient(strings.TrimRight(base, "/"), r.httpClient), nil
}

// APIGet makes a direct GET request to the songsheet API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	return r.writeBody(resp.Body, !cmd.Bool("json"))
}

// APIPost makes a direct POST request with a JSON body
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	return r.apiSend(ctx, cmd, "POST")
}

// APIPut makes a direct PUT request with a JSON body
func (r *Runner) APIPut(ctx context.Context, cmd *cli.Command) error {
	return r.apiSend(ctx, cmd, "PUT")
}

func (r *Runner) apiSend(ctx context.Context, cmd *cli.Command, method string) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	client, err := r.apiClient(cmd)
	if err != nil {
		return err
	}

	r.logger.Info(method+" request", "path", path)

	var resp *services.APIResponse
	if method == "PUT" {
		resp, err = client.Put(ctx, path, []byte(data))
	} else {
		resp, err = client.Post(ctx, path, []byte(data))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	return r.writeBody(resp.Body, true)
}

// APIDump fetches and displays the read endpoints of a running API.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	client, err := r.apiClient(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("dumping API state")

	type DumpData struct {
		Health  json.RawMessage   `json:"health,omitempty"`
		Options json.RawMessage   `json:"options,omitempty"`
		Artists json.RawMessage   `json:"artists,omitempty"`
		Songs   json.RawMessage   `json:"songs,omitempty"`
		Recent  json.RawMessage   `json:"recent,omitempty"`
		Popular json.RawMessage   `json:"popular,omitempty"`
		Errors  map[string]string `json:"errors,omitempty"`
	}

	dump := DumpData{Errors: map[string]string{}}
	endpoints := []struct {
		path string
		dest *json.RawMessage
	}{
		{"/healthz", &dump.Health},
		{"/api/options", &dump.Options},
		{"/api/artists", &dump.Artists},
		{"/api/songs", &dump.Songs},
		{"/api/songs/recent", &dump.Recent},
		{"/api/songs/popular", &dump.Popular},
	}

	for _, e := range endpoints {
		resp, err := client.Get(ctx, e.path)
		switch {
		case err != nil:
			dump.Errors[e.path] = err.Error()
		case !resp.OK():
			dump.Errors[e.path] = fmt.Sprintf("status %d", resp.StatusCode)
		case !json.Valid(resp.Body):
			dump.Errors[e.path] = "response is not JSON"
		default:
			*e.dest = json.RawMessage(resp.Body)
			continue
		}
		r.logger.Warn("failed to fetch endpoint", "path", e.path, "error", dump.Errors[e.path])
	}

	if save {
		saveFile := "api_dump.json"
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", saveFile)
		}
	}

	return r.writeJSON(dump, pretty)
}

// writeBody prints a response body, indenting it when it is JSON and pretty is set.
func (r *Runner) writeBody(body []byte, pretty bool) error {
	if pretty && json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			body = buf.Bytes()
		}
	}

	if _, err := r.output.Write(body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !bytes.HasSuffix(body, []byte("\n")) {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	return nil
}

// apiCommand handles direct calls to a running songsheet API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to a running songsheet API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: serviceFlags(
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the raw body without indentation",
					},
				),
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
				Flags: serviceFlags(
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				),
				Action: r.APIPost,
			},
			{
				Name:  "put",
				Usage: "Direct PUT with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: serviceFlags(
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				),
				Action: r.APIPut,
			},
			{
				Name:  "dump",
				Usage: "Dump every read endpoint (health, options, artists, songs, recent, popular)",
				Flags: serviceFlags(
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
						Value: false,
					},
				),
				Action: r.APIDump,
			},
		},
	}
}
