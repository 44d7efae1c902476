// Command statdesign computes sample sizes and power for fixed-sample
// frequentist designs from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: statdesign <command> [flags]

commands:
  n-two-prop         two-sample proportion comparison
  n-one-sample-prop  single proportion against a null value
  n-mean             two-sample mean comparison
  n-one-sample-mean  one-sample mean test
  n-paired           paired mean comparison
  n-anova            one-way ANOVA total sample size
  events-logrank     required events for a log-rank test
  events-cox         required events for a Cox model
  events-to-n        convert required events to arm sizes
  power-logrank      log-rank power implied by a design
  alpha-adjust       multiplicity-adjusted alpha
  bh-thresholds      Benjamini-Hochberg step-up critical values
  sweep              evaluate a design across a power or effect grid

run 'statdesign <command> -h' for command flags
`)
}

func main() {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err := cmd(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
