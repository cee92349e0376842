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

// MembershipRegistry is the membership surface the voting rules consume:
// who may act, and how many members exist right now. Quorum is always
// computed against the current count, never a snapshot.
type MembershipRegistry interface {
	// IsMember reports whether addr is currently a member.
	IsMember(addr common.Address) bool

	// MemberCount returns the number of current members.
	MemberCount() uint64

	// MemberContribution returns the accumulated contribution of addr.
	MemberContribution(addr common.Address) (*big.Int, error)

	// Admin returns the admin identity fixed at bootstrap.
	Admin() common.Address
}

// Governor manages the proposal lifecycle: creation, voting within the
// window, and execute-once disbursement after it.
type Governor interface {
	// CreateProposal records a new payment proposal and returns its id.
	CreateProposal(caller common.Address, description string, amount *big.Int, beneficiary common.Address) (uint64, error)

	// Vote casts the caller's single ballot on a proposal.
	Vote(caller common.Address, proposalID uint64, inFavor bool) error

	// ExecuteProposal settles a proposal whose voting window has elapsed.
	ExecuteProposal(caller common.Address, proposalID uint64) error

	// GetProposal returns a proposal without its voter set.
	GetProposal(proposalID uint64) (*Proposal, error)

	// OpenProposals returns all proposals not yet executed.
	OpenProposals() []*Proposal
}

// Transferor moves native currency out of the pool's custody. Transfers
// are invoked only after all internal state has been committed, so a
// re-entrant call during the transfer observes the already-settled state.
type Transferor interface {
	// Transfer pays amount to the recipient. A non-nil error aborts and
	// rolls back the operation that requested the transfer.
	Transfer(to common.Address, amount *big.Int) error
}

// Ledger persists fund state across calls. Writes happen before the
// in-memory state is updated, so a write error leaves the engine unchanged.
type Ledger interface {
	// PutMember stores or overwrites a member record.
	PutMember(m *Member) error

	// PutMemberList stores the current membership iteration order.
	PutMemberList(list []common.Address) error

	// PutProposal stores or overwrites a proposal record.
	PutProposal(p *Proposal) error

	// PutVote stores a cast ballot.
	PutVote(v *Vote) error

	// PutAdmin stores the admin identity.
	PutAdmin(admin common.Address) error

	// PutTreasury stores the pool balance and the proposal counter.
	PutTreasury(totalFunds *big.Int, nextProposalID uint64) error

	// Load reads the complete persisted state.
	Load() (*LedgerState, error)

	// Close releases the underlying store.
	Close() error
}

// NopTransferor is a book-entry Transferor: funds never leave the process,
// balances are the only record of custody.
type NopTransferor struct{}

// Transfer implements Transferor. It always succeeds.
func (NopTransferor) Transfer(common.Address, *big.Int) error { return nil }
