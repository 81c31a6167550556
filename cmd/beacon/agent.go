package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"signalhq/beacon/pkg/engine"
	"signalhq/beacon/pkg/server"
)

var agentFlags struct {
	url         string
	service     string
	environment string
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run a demo traffic agent against a control plane",
	Long: `Run a demo agent that simulates service traffic against a running
control plane.

The agent sends signals with gaussian latency and occasional spikes, adopts
the effective configuration returned on each ingest, and logs every
adaptation (log level, trace sample rate, metric period).

Examples:
  # Run against a local control plane
  beacon agent

  # Simulate a different service
  beacon agent --service checkout --environment prod --url http://cp:8080`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.Flags().StringVar(&agentFlags.url, "url", "http://localhost:8080", "control plane base URL")
	agentCmd.Flags().StringVar(&agentFlags.service, "service", "checkout", "service name to report")
	agentCmd.Flags().StringVar(&agentFlags.environment, "environment", "prod", "environment to report")
}

// demoAgent simulates one service instance adapting to the control plane.
type demoAgent struct {
	client  *http.Client
	baseURL string
	service string
	env     string
	logger  *slog.Logger

	cfg engine.EffectiveConfig
}

func runAgent(cmd *cobra.Command, args []string) error {
	logger := slog.Default().With(
		"service", agentFlags.service,
		"environment", agentFlags.environment,
	)

	agent := &demoAgent{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: agentFlags.url,
		service: agentFlags.service,
		env:     agentFlags.environment,
		logger:  logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting demo agent", "url", agentFlags.url)

	cfg, err := agent.fetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial config: %w", err)
	}
	agent.cfg = cfg
	logger.Info("initial config",
		"log_level", cfg.LogLevel,
		"trace_sample_rate", cfg.TraceSampleRate,
		"metric_period_s", cfg.MetricPeriodS,
	)

	return agent.loop(ctx)
}

// loop sends one simulated signal per period until the context is cancelled.
func (a *demoAgent) loop(ctx context.Context) error {
	for {
		latency, isError := simulateSample()

		cfg, err := a.sendSignal(ctx, latency, isError)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.logger.Error("failed to send signal", "error", err)
		} else {
			a.adapt(cfg)
		}

		// Sample a trace based on the adopted sample rate.
		if rand.Float64() < a.cfg.TraceSampleRate {
			a.logger.Debug("trace sampled",
				"latency_ms", latency,
				"error", isError,
			)
		}

		// Clamp the emission period to keep the demo responsive.
		period := min(max(1, a.cfg.MetricPeriodS), 10)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(period) * time.Second):
		}
	}
}

// simulateSample produces one latency/error observation: gaussian baseline
// around 150ms with a 10% chance of a 200-500ms spike, errors at 1%
// (11% during spikes).
func simulateSample() (latency float64, isError bool) {
	base := rand.NormFloat64()*30 + 150
	errorProb := 0.01
	if rand.Float64() < 0.1 {
		base += 200 + rand.Float64()*300
		errorProb = 0.11
	}
	return math.Max(1.0, base), rand.Float64() < errorProb
}

// adapt adopts the returned config, logging each changed setting.
func (a *demoAgent) adapt(cfg engine.EffectiveConfig) {
	if cfg.LogLevel != a.cfg.LogLevel {
		a.logger.Info("adapting log level", "log_level", cfg.LogLevel)
	}
	if math.Abs(cfg.TraceSampleRate-a.cfg.TraceSampleRate) > 1e-6 {
		a.logger.Info("adapting trace sample rate", "trace_sample_rate", cfg.TraceSampleRate)
	}
	if cfg.MetricPeriodS != a.cfg.MetricPeriodS {
		a.logger.Info("adapting metric period", "metric_period_s", cfg.MetricPeriodS)
	}
	a.cfg = cfg
}

// sendSignal posts one signal and decodes the effective config response.
func (a *demoAgent) sendSignal(ctx context.Context, latency float64, isError bool) (engine.EffectiveConfig, error) {
	host, _ := os.Hostname()
	body, err := json.Marshal(server.SignalRequest{
		Service:     a.service,
		Environment: a.env,
		LatencyMS:   &latency,
		Error:       &isError,
		Attrs:       map[string]string{"host": host},
	})
	if err != nil {
		return engine.EffectiveConfig{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/signal", bytes.NewReader(body))
	if err != nil {
		return engine.EffectiveConfig{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	return a.doConfigRequest(req)
}

// fetchConfig reads the effective config without ingesting a signal.
func (a *demoAgent) fetchConfig(ctx context.Context) (engine.EffectiveConfig, error) {
	url := fmt.Sprintf("%s/config/%s/%s", a.baseURL, a.service, a.env)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return engine.EffectiveConfig{}, err
	}
	return a.doConfigRequest(req)
}

func (a *demoAgent) doConfigRequest(req *http.Request) (engine.EffectiveConfig, error) {
	resp, err := a.client.Do(req)
	if err != nil {
		return engine.EffectiveConfig{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.EffectiveConfig{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var cfg engine.EffectiveConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return engine.EffectiveConfig{}, err
	}
	return cfg, nil
}
