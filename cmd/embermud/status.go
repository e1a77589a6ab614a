// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/embermud/embermud/internal/config"
)

// statusTimeout bounds each health probe request.
const statusTimeout = 5 * time.Second

// ProbeStatus holds the result of one health probe.
type ProbeStatus struct {
	Probe  string `json:"probe"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running EmberMUD server",
		Long:  `Query the liveness and readiness probes of a running server's metrics endpoint.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().String("server.metricsAddr", config.Default().Server.MetricsAddr, "metrics/health HTTP address of the server")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, scfg *statusConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Server.MetricsAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.metricsAddr is required (config file or --server.metricsAddr)")
	}

	base := "http://" + hostport(cfg.Server.MetricsAddr)
	statuses := []ProbeStatus{
		queryProbe(cmd.Context(), "liveness", base+"/healthz/liveness"),
		queryProbe(cmd.Context(), "readiness", base+"/healthz/readiness"),
	}

	if scfg.jsonOutput {
		out, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(formatStatusTable(statuses))
	return nil
}

// hostport fills in localhost for bare ":port" listen addresses.
func hostport(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// queryProbe performs one HTTP health check and reports the outcome.
func queryProbe(ctx context.Context, probe, url string) ProbeStatus {
	status := ProbeStatus{Probe: probe}

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		status.Status = "unknown"
		status.Error = err.Error()
		return status
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		status.Status = "down"
		status.Error = err.Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusOK {
		status.Status = "ok"
	} else {
		status.Status = "failing"
		status.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return status
}

func formatStatusTable(statuses []ProbeStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROBE\tSTATUS\tDETAIL")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Probe, s.Status, s.Error)
	}
	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
