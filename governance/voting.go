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
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// CreateProposal records a new payment proposal and returns its id. The
// amount is checked against the current pool balance but not reserved;
// proposals created later may compete for the same funds and the loser
// settles as not passed at execution time.
func (e *Engine) CreateProposal(caller common.Address, description string, amount *big.Int, beneficiary common.Address) (uint64, error) {
	if amount == nil {
		amount = new(big.Int)
	}
	if amount.Sign() < 0 {
		return 0, ErrInvalidAmount
	}

	e.mu.Lock()
	if !e.isMember(caller) {
		e.mu.Unlock()
		return 0, ErrUnauthorized
	}
	if e.totalFunds.Cmp(amount) < 0 {
		e.mu.Unlock()
		return 0, ErrInsufficientFunds
	}

	p := &Proposal{
		ID:          e.nextProposalID,
		Description: description,
		Amount:      new(big.Int).Set(amount),
		Beneficiary: beneficiary,
		CreatedAt:   e.now(),
	}

	if err := e.ledger.PutProposal(p); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	if err := e.ledger.PutTreasury(e.totalFunds, e.nextProposalID+1); err != nil {
		e.mu.Unlock()
		return 0, err
	}

	e.proposals[p.ID] = p
	e.votes[p.ID] = make([]*Vote, 0)
	e.nextProposalID++
	id := p.ID
	e.mu.Unlock()

	e.emit(Event{
		Kind:        EventProposalCreated,
		Member:      caller,
		ProposalID:  id,
		Description: description,
		Amount:      new(big.Int).Set(amount),
		Beneficiary: beneficiary,
	})
	return id, nil
}

// Vote casts the caller's single ballot on a proposal. Ballots are accepted
// strictly before CreatedAt+VotingPeriod and never after execution. A cast
// ballot is permanent; membership changes do not retract it.
func (e *Engine) Vote(caller common.Address, proposalID uint64, inFavor bool) error {
	e.mu.Lock()
	p, exists := e.proposals[proposalID]
	if !exists {
		e.mu.Unlock()
		return ErrProposalNotFound
	}
	if !e.isMember(caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if p.Executed {
		e.mu.Unlock()
		return ErrProposalExecuted
	}
	if e.now() >= p.CreatedAt+e.config.VotingPeriod {
		e.mu.Unlock()
		return ErrVotingClosed
	}
	for _, v := range e.votes[proposalID] {
		if v.Voter == caller {
			e.mu.Unlock()
			return ErrAlreadyVoted
		}
	}

	vote := &Vote{
		ProposalID: proposalID,
		Voter:      caller,
		InFavor:    inFavor,
		Timestamp:  e.now(),
	}
	record := *p
	record.Amount = new(big.Int).Set(p.Amount)
	if inFavor {
		record.VotesFor++
	} else {
		record.VotesAgainst++
	}

	if err := e.ledger.PutVote(vote); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.ledger.PutProposal(&record); err != nil {
		e.mu.Unlock()
		return err
	}

	p.VotesFor = record.VotesFor
	p.VotesAgainst = record.VotesAgainst
	e.votes[proposalID] = append(e.votes[proposalID], vote)
	e.mu.Unlock()

	e.emit(Event{Kind: EventVoted, Member: caller, ProposalID: proposalID, InFavor: inFavor})
	return nil
}

// ExecuteProposal settles a proposal. It is callable by any member once the
// voting window has fully elapsed, and succeeds at most once per proposal.
//
// Quorum is floor(currentMembers * QuorumPercentage / 100), evaluated
// against the membership at execution time. Once quorum holds the proposal
// is marked executed regardless of the outcome; the payout itself happens
// only for a strict majority in favor with sufficient pool balance. The
// transfer runs after the executed flag and balance decrement are
// committed; if it fails, the whole execution rolls back and the proposal
// stays open for a retry.
func (e *Engine) ExecuteProposal(caller common.Address, proposalID uint64) error {
	e.mu.Lock()
	p, exists := e.proposals[proposalID]
	if !exists {
		e.mu.Unlock()
		return ErrProposalNotFound
	}
	if !e.isMember(caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if p.Executed {
		e.mu.Unlock()
		return ErrProposalExecuted
	}
	if e.now() < p.CreatedAt+e.config.VotingPeriod {
		e.mu.Unlock()
		return ErrVotingNotEnded
	}

	quorum := uint64(len(e.memberList)) * e.config.QuorumPercentage / 100
	if p.VotesFor+p.VotesAgainst < quorum {
		e.mu.Unlock()
		return ErrQuorumNotReached
	}

	passed := p.VotesFor > p.VotesAgainst && e.totalFunds.Cmp(p.Amount) >= 0

	record := *p
	record.Amount = new(big.Int).Set(p.Amount)
	record.Executed = true
	newTotal := new(big.Int).Set(e.totalFunds)
	if passed {
		newTotal.Sub(newTotal, p.Amount)
	}

	if err := e.ledger.PutProposal(&record); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.ledger.PutTreasury(newTotal, e.nextProposalID); err != nil {
		e.mu.Unlock()
		return err
	}

	p.Executed = true
	e.totalFunds = newTotal
	amount := new(big.Int).Set(p.Amount)
	beneficiary := p.Beneficiary
	e.mu.Unlock()

	if passed {
		if err := e.bank.Transfer(beneficiary, amount); err != nil {
			e.rollbackExecution(proposalID, amount)
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	paid := new(big.Int)
	if passed {
		paid.Set(amount)
	}
	e.emit(Event{
		Kind:        EventProposalExecuted,
		Member:      caller,
		ProposalID:  proposalID,
		Passed:      passed,
		Amount:      paid,
		Beneficiary: beneficiary,
	})
	return nil
}

// GetProposal returns a copy of a proposal without its voter set.
func (e *Engine) GetProposal(proposalID uint64) (*Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, exists := e.proposals[proposalID]
	if !exists {
		return nil, ErrProposalNotFound
	}
	return copyProposal(p), nil
}

// OpenProposals returns all proposals not yet executed, ordered by id.
func (e *Engine) OpenProposals() []*Proposal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	open := make([]*Proposal, 0)
	for _, p := range e.proposals {
		if !p.Executed {
			open = append(open, copyProposal(p))
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })
	return open
}

// ProposalVotes returns copies of all ballots cast on a proposal.
func (e *Engine) ProposalVotes(proposalID uint64) ([]*Vote, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, exists := e.proposals[proposalID]; !exists {
		return nil, ErrProposalNotFound
	}
	votes := make([]*Vote, 0, len(e.votes[proposalID]))
	for _, v := range e.votes[proposalID] {
		voteCopy := *v
		votes = append(votes, &voteCopy)
	}
	return votes, nil
}

// rollbackExecution reopens a proposal whose payout transfer failed. The
// pool restore is additive, so contributions that slipped in between are
// preserved.
func (e *Engine) rollbackExecution(proposalID uint64, amount *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.proposals[proposalID]
	p.Executed = false
	e.totalFunds.Add(e.totalFunds, amount)

	if err := e.ledger.PutProposal(p); err != nil {
		log.Error("Governance: failed to persist execution rollback", "proposal", proposalID, "err", err)
	}
	if err := e.ledger.PutTreasury(e.totalFunds, e.nextProposalID); err != nil {
		log.Error("Governance: failed to persist treasury rollback", "err", err)
	}
}

func copyProposal(p *Proposal) *Proposal {
	proposalCopy := *p
	proposalCopy.Amount = new(big.Int).Set(p.Amount)
	return &proposalCopy
}
