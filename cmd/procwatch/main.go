package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/procwatch/procwatch/pkg/perfmon"
	"github.com/procwatch/procwatch/pkg/ui"
)

const defaultRefresh = time.Second

type runConfig struct {
	refresh    time.Duration
	processCPU bool
	engines    []string
}

// fileConfig is the optional YAML config; pointer fields stay nil when the
// key is absent so flags keep their values.
type fileConfig struct {
	UseGlobalCPUUtilization *bool    `yaml:"useGlobalCPUUtilization"`
	RefreshInterval         string   `yaml:"refreshInterval"`
	Engines                 []string `yaml:"engines"`
}

func parseConfig() (runConfig, error) {
	refresh := flag.Duration("interval", defaultRefresh, "display refresh interval (e.g. 500ms, 2s)")
	processCPU := flag.Bool("process", false, "report process CPU utilization instead of system-wide")
	engines := flag.String("engines", "", "comma-separated GPU engine types to display (default: all observed)")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg := runConfig{
		refresh:    *refresh,
		processCPU: *processCPU,
		engines:    splitList(*engines),
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
		if file.UseGlobalCPUUtilization != nil {
			cfg.processCPU = !*file.UseGlobalCPUUtilization
		}
		if file.RefreshInterval != "" {
			d, err := time.ParseDuration(file.RefreshInterval)
			if err != nil {
				return cfg, fmt.Errorf("parsing refreshInterval: %w", err)
			}
			cfg.refresh = d
		}
		if len(file.Engines) > 0 {
			cfg.engines = file.Engines
		}
	}

	if cfg.refresh <= 0 {
		cfg.refresh = defaultRefresh
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := perfmon.Initialize(perfmon.Options{
		UseGlobalCPUUtilization: !cfg.processCPU,
	}); err != nil {
		log.Fatalf("initializing performance counters: %v", err)
	}
	defer perfmon.Shutdown()

	cleanupTerminal := enableSingleView()
	defer cleanupTerminal()

	ticker := time.NewTicker(cfg.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			render(cfg)
		}
	}
}

func render(cfg runConfig) {
	var buf bytes.Buffer
	buf.WriteString(ui.Banner())
	fmt.Fprintf(&buf, "procwatch (press Ctrl+C to exit)\n")
	fmt.Fprintf(&buf, "Updated: %s | Refresh: %v\n\n", time.Now().Format(time.RFC3339), cfg.refresh)

	scope := "system"
	if cfg.processCPU {
		scope = "process"
	}
	fmt.Fprintf(&buf, "[CPU]\n")
	fmt.Fprintf(&buf, "Utilization (%s): %.1f%%\n", scope, perfmon.GetCPUUtilization())

	cores := perfmon.GetCPUCoresUtilization()
	if len(cores) > 0 {
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CORE\tUSAGE(%)")
		for i, usage := range cores {
			fmt.Fprintf(tw, "%d\t%.1f\n", i, usage)
		}
		tw.Flush()
	}

	fmt.Fprintf(&buf, "\n[GPU Engines]\n")
	names := engineList(cfg)
	if len(names) == 0 {
		fmt.Fprintln(&buf, "No GPU engine activity for this process")
	} else {
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ENGINE\tUSAGE(%)")
		for _, name := range names {
			fmt.Fprintf(tw, "%s\t%.1f\n", name, perfmon.GetGPUEngineUtilization(name))
		}
		tw.Flush()
	}

	fmt.Fprintf(&buf, "\n[GPU Memory]\n")
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tUSED(MiB)")
	fmt.Fprintf(tw, "dedicated\t%.1f\n", mib(perfmon.GetUsedGPUDedicatedMemory()))
	fmt.Fprintf(tw, "shared\t%.1f\n", mib(perfmon.GetUsedGPUSharedMemory()))
	tw.Flush()

	clearScreen()
	fmt.Print(buf.String())
}

func engineList(cfg runConfig) []string {
	if len(cfg.engines) > 0 {
		return cfg.engines
	}
	return perfmon.GetGPUEngineNames()
}

func mib(n uint64) float64 {
	return float64(n) / (1024 * 1024)
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}

func enableSingleView() func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}

	fmt.Print("\033[?1049h") // switch to alternate buffer
	fmt.Print("\033[?25l")   // hide cursor

	return func() {
		fmt.Print("\033[?25h")   // show cursor
		fmt.Print("\033[?1049l") // restore main buffer
	}
}
