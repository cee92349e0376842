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

package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Member represents one participant in the shared fund. Removed members keep
// their record with IsMember cleared so that contribution accounting stays
// intact; only the member list and the member count shrink.
type Member struct {
	Address      common.Address // member identity
	IsMember     bool           // current membership flag
	Contribution *big.Int       // accumulated deposits, moved only by this member's own deposits and withdrawals
	JoinedAt     uint64         // unix seconds of the most recent admission
}

// Proposal is a request to pay a flat amount from the pool to one
// beneficiary. There is exactly one proposal kind and one voting rule.
//
// Executed transitions false->true exactly once and never reverts. The
// per-voter set lives in a separate vote table so proposal reads never
// expose it.
type Proposal struct {
	ID           uint64         // sequential id, assigned from 0
	Description  string
	Amount       *big.Int       // requested payout
	Beneficiary  common.Address
	CreatedAt    uint64         // unix seconds
	VotesFor     uint64
	VotesAgainst uint64
	Executed     bool
}

// Vote records a single member ballot on a proposal.
type Vote struct {
	ProposalID uint64
	Voter      common.Address
	InFavor    bool // true = for, false = against
	Timestamp  uint64
}

// Config holds the voting rules of the fund.
type Config struct {
	QuorumPercentage uint64 // percent of the current member count whose ballots must be cast
	VotingPeriod     uint64 // seconds after creation during which votes are accepted
}

// DefaultConfig returns the default fund governance configuration.
func DefaultConfig() *Config {
	return &Config{
		QuorumPercentage: 50,
		VotingPeriod:     3 * 24 * 3600, // 3 days
	}
}

// LedgerState is the full durable state of a fund, as loaded from a Ledger
// at startup.
type LedgerState struct {
	Admin          common.Address
	Members        []*Member
	MemberList     []common.Address
	Proposals      []*Proposal
	Votes          []*Vote
	TotalFunds     *big.Int
	NextProposalID uint64
}
