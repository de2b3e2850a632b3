package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
	"github.com/mohdfareed/health-vaults-sub001/internal/config"
	"github.com/mohdfareed/health-vaults-sub001/internal/daemon"
)

// daemonRuntime is the on-disk record of a running daemon. A single
// JSON file carries the PID and listen address so status/stop do not
// need the original flags.
type daemonRuntime struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`

	path string
}

var (
	flagDaemonAddr         string
	flagDaemonSchedule     string
	flagDaemonDetach       bool
	flagDaemonRuntimeFile  string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background estimation daemon with HTTP/SSE endpoints",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	runDir := config.DataDir(config.DefaultConfig())

	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	pf.StringVar(&flagDaemonSchedule, "schedule", "", "Cron schedule for recomputation (default from config)")
	pf.StringVar(&flagDaemonRuntimeFile, "runtime-file", filepath.Join(runDir, "hvaultd.json"), "Daemon runtime state file")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(runDir, "hvaultd.log"), "Log file path for detached mode")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}
	if flagDaemonDetach {
		return spawnDaemon()
	}
	return serveDaemon()
}

// spawnDaemon re-executes the current binary with --detach stripped and
// a hidden --child marker, wiring its output to the log file.
func spawnDaemon() error {
	if rt, running := liveRuntime(flagDaemonRuntimeFile); running {
		return fmt.Errorf("daemon already running (pid %d)", rt.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	var childArgs []string
	for _, a := range os.Args[1:] {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		childArgs = append(childArgs, a)
	}
	childArgs = append(childArgs, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, childArgs...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Runtime file: %s\n", flagDaemonRuntimeFile)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

// serveDaemon runs the service in the foreground, holding the runtime
// file for its lifetime.
func serveDaemon() error {
	if rt, running := liveRuntime(flagDaemonRuntimeFile); running {
		return fmt.Errorf("daemon already running (pid %d)", rt.PID)
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	addr := cfg.Daemon.Addr
	if flagDaemonAddr != "" {
		addr = flagDaemonAddr
	}
	schedule := cfg.Daemon.Schedule
	if flagDaemonSchedule != "" {
		schedule = flagDaemonSchedule
	}

	rt := daemonRuntime{
		PID:       os.Getpid(),
		Addr:      addr,
		StartedAt: time.Now(),
		DBPath:    dbPath(cfg),
		path:      flagDaemonRuntimeFile,
	}
	if err := rt.write(); err != nil {
		return err
	}
	defer rt.remove()

	svc := daemon.New(daemon.Config{
		DBPath:       dbPath(cfg),
		Addr:         addr,
		Schedule:     schedule,
		Adjustment:   cfg.General.Adjustment,
		Engine:       cfg.EngineConfig(),
		EventsBuffer: flagDaemonEventsBuffer,
	})

	fmt.Printf("  hvault daemon listening on http://%s\n", addr)
	fmt.Printf("  Recomputing on schedule %q\n", schedule)
	fmt.Printf("  Stop with: hvault daemon stop\n")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	rt, running := liveRuntime(flagDaemonRuntimeFile)
	if !running {
		fmt.Println(cli.Muted("  Daemon: not running"))
		return nil
	}

	table := cli.Table{
		Title:   "Daemon",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"PID", fmt.Sprintf("%d", rt.PID)},
			{"Address", "http://" + rt.Addr},
			{"Started", rt.StartedAt.Local().Format(time.RFC3339)},
		},
	}

	st, err := probeStatus(rt.Addr)
	if err != nil {
		fmt.Println(cli.RenderTable(table))
		fmt.Println(cli.Warn(fmt.Sprintf("API unreachable: %v", err)))
		return nil
	}

	lastRun := "pending"
	if !st.LastComputeAt.IsZero() {
		lastRun = st.LastComputeAt.Local().Format(time.RFC3339)
	}
	table.Rows = append(table.Rows,
		[]string{"Last compute", lastRun},
		[]string{"Compute count", fmt.Sprintf("%d", st.ComputeCount)},
		[]string{"Maintenance", cli.FormatKcal(st.Summary.Maintenance)},
		[]string{"Budget", cli.FormatKcal(st.Summary.Budget)},
	)
	fmt.Println(cli.RenderTable(table))
	if st.LastError != "" {
		fmt.Println(cli.Warn("Last error: " + st.LastError))
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	rt, running := liveRuntime(flagDaemonRuntimeFile)
	if !running {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(rt.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(8 * time.Second)
	for {
		select {
		case <-tick.C:
			if !processAlive(rt.PID) {
				rt.remove()
				fmt.Printf("  Stopped daemon (pid %d)\n", rt.PID)
				return nil
			}
		case <-deadline:
			return fmt.Errorf("daemon (pid %d) did not exit in time", rt.PID)
		}
	}
}

func probeStatus(addr string) (daemon.Status, error) {
	var st daemon.Status

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		return st, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response: %w", err)
	}
	return st, nil
}

// liveRuntime loads the runtime file and verifies the recorded process
// is still alive; a stale file is cleaned up on the spot.
func liveRuntime(path string) (daemonRuntime, bool) {
	rt := daemonRuntime{path: path}

	//nolint:gosec // daemon runtime path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return rt, false
	}
	if err := json.Unmarshal(data, &rt); err != nil || rt.PID <= 0 {
		rt.remove()
		return rt, false
	}
	if !processAlive(rt.PID) {
		rt.remove()
		return rt, false
	}
	return rt, true
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func (rt daemonRuntime) write() error {
	if err := os.MkdirAll(filepath.Dir(rt.path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	data, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rt.path, append(data, '\n'), 0o600)
}

func (rt daemonRuntime) remove() {
	_ = os.Remove(rt.path)
}
