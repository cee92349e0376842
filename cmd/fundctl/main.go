package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daofund/go-daofund/genesis"
	"github.com/daofund/go-daofund/governance"
	"github.com/daofund/go-daofund/internal/config"
	"github.com/daofund/go-daofund/storage"
)

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  init       initialize a fund ledger from a bootstrap config\n")
	fmt.Fprintf(os.Stderr, "  status     print admin, member count and pool balance\n")
	fmt.Fprintf(os.Stderr, "  members    list member records\n")
	fmt.Fprintf(os.Stderr, "  proposals  list proposal records\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "status":
		runInspect(os.Args[2:], printStatus)
	case "members":
		runInspect(os.Args[2:], printMembers)
	case "proposals":
		runInspect(os.Args[2:], printProposals)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func runInit(args []string) {
	flags := flag.NewFlagSet("init", flag.ExitOnError)
	cli := &config.CLIConfig{}
	flags.StringVar(&cli.DataDir, "datadir", "", "ledger database directory")
	flags.StringVar(&cli.GenesisPath, "genesis", "", "bootstrap config file (TOML)")
	flags.Uint64Var(&cli.QuorumPercentage, "quorum", 0, "quorum percentage (must agree with the bootstrap file)")
	flags.Uint64Var(&cli.VotingPeriodSeconds, "period", 0, "voting period in seconds (must agree with the bootstrap file)")
	flags.Parse(args)

	if cli.GenesisPath == "" {
		fmt.Fprintln(os.Stderr, "init: -genesis is required")
		os.Exit(1)
	}

	bootstrap, err := genesis.LoadConfig(cli.GenesisPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bootstrap config: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateParameters(cli, bootstrap); err != nil {
		fmt.Fprintf(os.Stderr, "Error validating parameters: %v\n", err)
		os.Exit(1)
	}

	ledger, err := storage.Open(storage.DefaultConfig(cli.DataDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		os.Exit(1)
	}
	defer ledger.Close()

	engine, err := genesis.Bootstrap(bootstrap, ledger, governance.NopTransferor{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error bootstrapping fund: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Fund ledger initialized: %s\n", cli.DataDir)
	fmt.Printf("  Admin:         %s\n", engine.Admin().Hex())
	fmt.Printf("  Members:       %d\n", engine.MemberCount())
	fmt.Printf("  Quorum:        %d%%\n", cli.QuorumPercentage)
	fmt.Printf("  Voting period: %ds\n", cli.VotingPeriodSeconds)
}

// runInspect opens the ledger read-only and hands the loaded state to print.
func runInspect(args []string, print func(*governance.LedgerState)) {
	flags := flag.NewFlagSet("inspect", flag.ExitOnError)
	datadir := flags.String("datadir", "", "ledger database directory")
	flags.Parse(args)

	if *datadir == "" {
		fmt.Fprintln(os.Stderr, "-datadir is required")
		os.Exit(1)
	}

	cfg := storage.DefaultConfig(*datadir)
	cfg.ReadOnly = true
	ledger, err := storage.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		os.Exit(1)
	}
	defer ledger.Close()

	state, err := ledger.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger state: %v\n", err)
		os.Exit(1)
	}
	print(state)
}

func printStatus(state *governance.LedgerState) {
	fmt.Printf("Admin:         %s\n", state.Admin.Hex())
	fmt.Printf("Members:       %d\n", len(state.MemberList))
	fmt.Printf("Total funds:   %s\n", state.TotalFunds)
	fmt.Printf("Proposals:     %d (next id %d)\n", len(state.Proposals), state.NextProposalID)
}

func printMembers(state *governance.LedgerState) {
	for _, m := range state.Members {
		status := "active"
		if !m.IsMember {
			status = "removed"
		}
		fmt.Printf("%s  %-8s contribution=%s\n", m.Address.Hex(), status, m.Contribution)
	}
}

func printProposals(state *governance.LedgerState) {
	for _, p := range state.Proposals {
		status := "open"
		if p.Executed {
			status = "executed"
		}
		fmt.Printf("#%d  %-9s amount=%s beneficiary=%s for=%d against=%d  %s\n",
			p.ID, status, p.Amount, p.Beneficiary.Hex(), p.VotesFor, p.VotesAgainst, p.Description)
	}
}
