// host-pulse is a lightweight host resource monitor.
//
// It polls CPU, memory, disk and load metrics on a fixed interval, logs
// every sample, raises alerts when configured thresholds are breached,
// and captures the top offending processes alongside each alert.
//
// Usage:
//
//	host-pulse [command] [flags]
//
// Commands:
//
//	start      Run the monitoring daemon in the foreground (default)
//	stop       Stop a running daemon
//	status     Show daemon status and the latest sample
//	logs       Print the tail of the monitor log
//	alerts     Print the tail of the alert log
//	list-logs  List active and rotated log files
//	watch      Launch the interactive dashboard
//	version    Print version and exit
//
// Flags common to all commands:
//
//	-config string  Path to configuration file (default: ~/.config/host-pulse/config.yaml)
//	-verbose        Enable verbose logging
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches to the requested subcommand. With no command given,
// start runs; bare flags are also routed to start.
func run(args []string) int {
	if len(args) == 0 {
		return cmdStart(nil)
	}

	switch args[0] {
	case "start":
		return cmdStart(args[1:])
	case "stop":
		return cmdStop(args[1:])
	case "status":
		return cmdStatus(args[1:])
	case "logs":
		return cmdLogs(args[1:])
	case "alerts":
		return cmdAlerts(args[1:])
	case "list-logs":
		return cmdListLogs(args[1:])
	case "watch":
		return cmdWatch(args[1:])
	case "version":
		fmt.Printf("host-pulse %s (%s) built %s\n", version, commit, date)
		return 0
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return 0
	default:
		if strings.HasPrefix(args[0], "-") {
			return cmdStart(args)
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(os.Stderr)
		return 2
	}
}

func printUsage(w *os.File) {
	fmt.Fprintf(w, `host-pulse %s - host resource monitor

Usage: host-pulse [command] [flags]

Commands:
  start      Run the monitoring daemon in the foreground (default)
  stop       Stop a running daemon
  status     Show daemon status and the latest sample
  logs       Print the tail of the monitor log
  alerts     Print the tail of the alert log
  list-logs  List active and rotated log files
  watch      Launch the interactive dashboard
  version    Print version and exit

Flags common to all commands:
  -config string  Path to configuration file (default: ~/.config/host-pulse/config.yaml)
  -verbose        Enable verbose logging

The logs and alerts commands also accept -n to control how many lines
are printed (logs default 20, alerts default 50).
`, version)
}
