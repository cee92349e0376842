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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// AddMember admits target into the fund. Only the admin may call it. A
// previously removed member is re-admitted with its contribution intact.
func (e *Engine) AddMember(caller, target common.Address) error {
	e.mu.Lock()
	if caller != e.admin {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if e.isMember(target) {
		e.mu.Unlock()
		return ErrAlreadyMember
	}

	m, exists := e.members[target]
	record := Member{
		Address:      target,
		IsMember:     true,
		Contribution: new(big.Int),
		JoinedAt:     e.now(),
	}
	if exists {
		record.Contribution.Set(m.Contribution)
	}
	newList := append(append([]common.Address(nil), e.memberList...), target)

	if err := e.ledger.PutMember(&record); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.ledger.PutMemberList(newList); err != nil {
		e.mu.Unlock()
		return err
	}

	if exists {
		m.IsMember = true
		m.JoinedAt = record.JoinedAt
	} else {
		stored := record
		e.members[target] = &stored
	}
	e.memberList = newList
	e.mu.Unlock()

	e.emit(Event{Kind: EventMemberAdded, Member: target})
	return nil
}

// RemoveMember expels target from the fund. Only the admin may call it.
// The member list order carries no meaning, so removal swaps the last
// entry into the vacated slot. The member's contribution record survives;
// it simply can no longer be withdrawn until re-admission.
func (e *Engine) RemoveMember(caller, target common.Address) error {
	e.mu.Lock()
	if caller != e.admin {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if !e.isMember(target) {
		e.mu.Unlock()
		return ErrNotMember
	}

	m := e.members[target]
	record := *m
	record.Contribution = new(big.Int).Set(m.Contribution)
	record.IsMember = false

	newList := append([]common.Address(nil), e.memberList...)
	for i, addr := range newList {
		if addr == target {
			newList[i] = newList[len(newList)-1]
			newList = newList[:len(newList)-1]
			break
		}
	}

	if err := e.ledger.PutMember(&record); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.ledger.PutMemberList(newList); err != nil {
		e.mu.Unlock()
		return err
	}

	m.IsMember = false
	e.memberList = newList
	e.mu.Unlock()

	e.emit(Event{Kind: EventMemberRemoved, Member: target})
	return nil
}

// Contribute deposits value into the pool on the caller's account. Only
// current members may contribute, and only positive values are accepted.
func (e *Engine) Contribute(caller common.Address, value *big.Int) error {
	if value == nil || value.Sign() <= 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	if !e.isMember(caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}

	m := e.members[caller]
	record := *m
	record.Contribution = new(big.Int).Add(m.Contribution, value)
	newTotal := new(big.Int).Add(e.totalFunds, value)

	if err := e.ledger.PutMember(&record); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.ledger.PutTreasury(newTotal, e.nextProposalID); err != nil {
		e.mu.Unlock()
		return err
	}

	m.Contribution = record.Contribution
	e.totalFunds = newTotal
	e.mu.Unlock()

	e.emit(Event{Kind: EventFundsContributed, Member: caller, Amount: new(big.Int).Set(value)})
	return nil
}

// Withdraw pays amount of the caller's own contribution back out of the
// pool. The contribution and pool decrements are committed before the
// transfer; a failed transfer rolls both back so the call is all-or-nothing.
func (e *Engine) Withdraw(caller common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	if !e.isMember(caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}

	m := e.members[caller]
	if m.Contribution.Cmp(amount) < 0 {
		e.mu.Unlock()
		return ErrInsufficientContribution
	}

	record := *m
	record.Contribution = new(big.Int).Sub(m.Contribution, amount)
	newTotal := new(big.Int).Sub(e.totalFunds, amount)

	if err := e.ledger.PutMember(&record); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.ledger.PutTreasury(newTotal, e.nextProposalID); err != nil {
		e.mu.Unlock()
		return err
	}

	m.Contribution = record.Contribution
	e.totalFunds = newTotal
	e.mu.Unlock()

	if err := e.bank.Transfer(caller, amount); err != nil {
		e.rollbackWithdrawal(caller, amount)
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.emit(Event{Kind: EventFundsWithdrawn, Member: caller, Amount: new(big.Int).Set(amount)})
	return nil
}

// rollbackWithdrawal restores the balances committed by Withdraw after the
// outbound transfer failed. The restore is additive, so operations that
// slipped in between are preserved.
func (e *Engine) rollbackWithdrawal(caller common.Address, amount *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.members[caller]
	m.Contribution.Add(m.Contribution, amount)
	e.totalFunds.Add(e.totalFunds, amount)

	if err := e.ledger.PutMember(m); err != nil {
		log.Error("Governance: failed to persist withdrawal rollback", "member", caller, "err", err)
	}
	if err := e.ledger.PutTreasury(e.totalFunds, e.nextProposalID); err != nil {
		log.Error("Governance: failed to persist treasury rollback", "err", err)
	}
}
