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

// EventKind identifies the boundary operation an Event reports.
type EventKind uint8

const (
	EventMemberAdded      EventKind = 0x01
	EventMemberRemoved    EventKind = 0x02
	EventFundsContributed EventKind = 0x03
	EventFundsWithdrawn   EventKind = 0x04
	EventProposalCreated  EventKind = 0x05
	EventVoted            EventKind = 0x06
	EventProposalExecuted EventKind = 0x07
)

// Event is emitted on every successful state-changing operation. Fields
// beyond Kind are populated per operation:
//
//	MemberAdded/MemberRemoved:  Member
//	FundsContributed/Withdrawn: Member, Amount
//	ProposalCreated:            ProposalID, Description, Amount, Beneficiary
//	Voted:                      ProposalID, Member (the voter), InFavor
//	ProposalExecuted:           ProposalID, Passed, Amount (zero when the
//	                            vote did not pass), Beneficiary
type Event struct {
	Kind        EventKind
	Member      common.Address
	ProposalID  uint64
	Description string
	Amount      *big.Int
	Beneficiary common.Address
	InFavor     bool
	Passed      bool
}

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case EventMemberAdded:
		return "MemberAdded"
	case EventMemberRemoved:
		return "MemberRemoved"
	case EventFundsContributed:
		return "FundsContributed"
	case EventFundsWithdrawn:
		return "FundsWithdrawn"
	case EventProposalCreated:
		return "ProposalCreated"
	case EventVoted:
		return "Voted"
	case EventProposalExecuted:
		return "ProposalExecuted"
	default:
		return "Unknown"
	}
}
