// Package main is an interactive sandbox for the script interpreter:
// assemble instructions line by line, seed engine arguments and run the
// result against a demo routine table.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ebonhawk/ncsvm/src/conf"
	"github.com/ebonhawk/ncsvm/src/logging"
)

var (
	showVersion bool
	traceOn     bool
	configPath  string
)

func init() {
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.BoolVar(&traceOn, "t", false, "enable instruction tracing")
	flag.StringVar(&configPath, "c", "ncsdbg.toml", "logging config file")
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		printVersion()
		return
	}

	cfg, err := logging.LoadConfig(configPath)
	checkErr(err)
	if traceOn {
		cfg.Level = "debug"
	}
	log, err := logging.New(cfg)
	checkErr(err)
	defer func() { _ = log.Sync() }()

	printVersion()
	fmt.Fprint(os.Stderr, "Type .help for commands, ctrl-c to quit.\n")
	checkErr(newSession(log).repl())
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: ncsdbg [options]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
