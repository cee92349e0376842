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

// Package genesis bootstraps a fund from a declarative description: the
// admin identity, the founding members and the voting rules.
package genesis

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"

	"github.com/daofund/go-daofund/governance"
)

// BootstrapConfig holds the fund bootstrap configuration.
type BootstrapConfig struct {
	// Admin is the identity authorized to add and remove members. It is
	// immutable once the fund ledger has been initialized.
	Admin common.Address

	// Founders are admitted as members during bootstrap.
	Founders []common.Address

	// QuorumPercentage is the percent of current membership whose ballots
	// must be cast for a proposal outcome to be binding.
	QuorumPercentage uint64

	// VotingPeriodSeconds is the per-proposal voting window.
	VotingPeriodSeconds uint64
}

// DefaultBootstrapConfig returns the default bootstrap configuration.
func DefaultBootstrapConfig() *BootstrapConfig {
	return &BootstrapConfig{
		QuorumPercentage:    50,
		VotingPeriodSeconds: 3 * 24 * 3600, // 3 days
	}
}

// bootstrapFile is the on-disk TOML shape; addresses travel as hex strings.
type bootstrapFile struct {
	Admin               string   `toml:"admin"`
	Founders            []string `toml:"founders"`
	QuorumPercentage    uint64   `toml:"quorum_percentage"`
	VotingPeriodSeconds uint64   `toml:"voting_period_seconds"`
}

// LoadConfig reads and validates a bootstrap configuration file. Absent
// voting rule fields fall back to the defaults.
func LoadConfig(path string) (*BootstrapConfig, error) {
	var file bootstrapFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read bootstrap config %s: %w", path, err)
	}

	config := DefaultBootstrapConfig()
	if file.QuorumPercentage != 0 {
		config.QuorumPercentage = file.QuorumPercentage
	}
	if file.VotingPeriodSeconds != 0 {
		config.VotingPeriodSeconds = file.VotingPeriodSeconds
	}

	if !common.IsHexAddress(file.Admin) {
		return nil, fmt.Errorf("invalid admin address %q", file.Admin)
	}
	config.Admin = common.HexToAddress(file.Admin)

	for _, f := range file.Founders {
		if !common.IsHexAddress(f) {
			return nil, fmt.Errorf("invalid founder address %q", f)
		}
		config.Founders = append(config.Founders, common.HexToAddress(f))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for internal consistency.
func (c *BootstrapConfig) Validate() error {
	if c.Admin == (common.Address{}) {
		return errors.New("bootstrap config: admin address not set")
	}
	if c.QuorumPercentage == 0 || c.QuorumPercentage > 100 {
		return fmt.Errorf("bootstrap config: quorum percentage %d out of range (1-100)", c.QuorumPercentage)
	}
	if c.VotingPeriodSeconds == 0 {
		return errors.New("bootstrap config: voting period not set")
	}
	seen := make(map[common.Address]bool)
	for _, f := range c.Founders {
		if seen[f] {
			return fmt.Errorf("bootstrap config: duplicate founder %s", f.Hex())
		}
		seen[f] = true
	}
	return nil
}

// Bootstrap builds an engine on the given ledger and admits the founding
// members. It is safe to call on an already initialized ledger: founders
// who are already members are left untouched.
func Bootstrap(config *BootstrapConfig, ledger governance.Ledger, bank governance.Transferor) (*governance.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engine, err := governance.NewEngine(&governance.Config{
		QuorumPercentage: config.QuorumPercentage,
		VotingPeriod:     config.VotingPeriodSeconds,
	}, config.Admin, ledger, bank)
	if err != nil {
		return nil, err
	}

	admin := engine.Admin()
	for _, founder := range config.Founders {
		if err := engine.AddMember(admin, founder); err != nil {
			if errors.Is(err, governance.ErrAlreadyMember) {
				continue
			}
			return nil, fmt.Errorf("failed to admit founder %s: %w", founder.Hex(), err)
		}
	}
	return engine, nil
}
