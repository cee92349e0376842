// Copyright 2025 The go-daofund Authors
// This file is part of the go-daofund library.
//
// The go-daofund library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-daofund library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-daofund library. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"

	"github.com/daofund/go-daofund/genesis"
)

// CLIConfig holds the runtime parameters supplied on the command line.
type CLIConfig struct {
	DataDir             string // ledger database directory
	GenesisPath         string // bootstrap config file
	QuorumPercentage    uint64 // optional override, must agree with the bootstrap file
	VotingPeriodSeconds uint64 // optional override, must agree with the bootstrap file
}

// ValidateParameters validates parameter consistency across two layers:
// 1. Bootstrap file parameters (fixed once the ledger is initialized)
// 2. Command line parameters (runtime config, may repeat but not contradict)
//
// On success the CLI config carries the effective voting rules.
func ValidateParameters(cli *CLIConfig, bootstrap *genesis.BootstrapConfig) error {
	if cli.DataDir == "" {
		return errors.New("data directory not set")
	}

	if cli.QuorumPercentage != 0 &&
		cli.QuorumPercentage != bootstrap.QuorumPercentage {
		return fmt.Errorf(
			"quorum percentage mismatch: CLI=%d, bootstrap=%d. "+
				"Bootstrap parameters cannot be overridden",
			cli.QuorumPercentage,
			bootstrap.QuorumPercentage,
		)
	}

	if cli.VotingPeriodSeconds != 0 &&
		cli.VotingPeriodSeconds != bootstrap.VotingPeriodSeconds {
		return fmt.Errorf(
			"voting period mismatch: CLI=%d, bootstrap=%d. "+
				"Bootstrap parameters cannot be overridden",
			cli.VotingPeriodSeconds,
			bootstrap.VotingPeriodSeconds,
		)
	}

	// Bootstrap parameters take priority over absent CLI parameters.
	cli.QuorumPercentage = bootstrap.QuorumPercentage
	cli.VotingPeriodSeconds = bootstrap.VotingPeriodSeconds

	return nil
}
