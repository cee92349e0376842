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

import "errors"

// Membership errors
var (
	ErrUnauthorized  = errors.New("caller is not authorized for this operation")
	ErrAlreadyMember = errors.New("address is already a member")
	ErrNotMember     = errors.New("address is not a member")
)

// Fund errors
var (
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInsufficientContribution = errors.New("amount exceeds the member's contribution")
	ErrInsufficientFunds        = errors.New("amount exceeds the pool balance")
	ErrTransferFailed           = errors.New("fund transfer failed")
)

// Voting errors
var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrAlreadyVoted     = errors.New("member has already voted on this proposal")
	ErrProposalExecuted = errors.New("proposal already executed")
	ErrVotingClosed     = errors.New("voting window has closed")
	ErrVotingNotEnded   = errors.New("voting window has not ended")
	ErrQuorumNotReached = errors.New("quorum not reached")
)
