package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-ticket-agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	configx "github.com/tanpawarit/chative-ticket-agent/pkg/config"
	_ "github.com/tanpawarit/chative-ticket-agent/pkg/logger/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agentCfg := configx.MustNew[orchestrator.Config]("AGENT")

	deps, cleanup, err := buildDeps(ctx, *agentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire dependencies")
	}
	defer cleanup()

	orch, err := orchestrator.New(deps, *agentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create orchestrator")
	}

	if agentCfg.MetricsAddr != "" {
		go serveMetrics(agentCfg.MetricsAddr)
	}

	if err := chat(ctx, orch, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("chat loop stopped")
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

// chat runs the console loop for a single session. Lines starting with "/"
// are local commands: /stream on|off, /reset, /exit.
func chat(ctx context.Context, orch *orchestrator.Orchestrator, in io.Reader, out io.Writer) error {
	sessionID := uuid.NewString()
	log.Info().Str("session_id", sessionID).Msg("session started")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You > ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/exit" || line == "/quit":
			return nil
		case line == "/reset":
			if err := orch.Forget(ctx, sessionID); err != nil {
				fmt.Fprintf(out, "Bot < (reset failed: %v)\n", err)
			}
			continue
		case strings.HasPrefix(line, "/stream"):
			on := strings.TrimSpace(strings.TrimPrefix(line, "/stream")) != "off"
			if err := orch.SetStreaming(ctx, sessionID, on); err != nil {
				fmt.Fprintf(out, "Bot < (could not change streaming: %v)\n", err)
			}
			continue
		}

		reply, err := orch.HandleMessage(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(out, "Bot < (%s)\n", userFacingError(err))
			continue
		}
		if err := printReply(out, reply.Completion); err != nil {
			log.Warn().Err(err).Msg("stream interrupted")
		}
	}
}

func printReply(out io.Writer, c *contractx.Completion) error {
	fmt.Fprint(out, "Bot < ")
	defer fmt.Fprintln(out)

	if !c.IsStream() {
		fmt.Fprint(out, c.Text)
		return nil
	}
	defer c.Close()
	for {
		token, err := c.Stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprint(out, token)
	}
}

func userFacingError(err error) string {
	switch {
	case errors.Is(err, contractx.ErrMemoryAppend):
		return "your booking could not be saved yet, please send any message to retry"
	case errors.Is(err, contractx.ErrModelInvoke):
		return "the assistant is unavailable, please try again"
	case errors.Is(err, contractx.ErrTemplateData):
		return "flight data is unavailable, please try again"
	default:
		return err.Error()
	}
}
