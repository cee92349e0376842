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
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

// Engine owns all mutable fund state: the member table, the ordered member
// list, the proposal and vote tables, the pool balance and the proposal
// counter. Everything is guarded by one lock; fund conservation spans
// members and proposals, so the state is never split into independently
// locked fragments. Writes go to the Ledger before memory, so a storage
// error leaves the engine unchanged.
type Engine struct {
	config *Config
	ledger Ledger
	bank   Transferor
	now    func() uint64 // clock hook, unix seconds

	mu             sync.RWMutex
	admin          common.Address
	members        map[common.Address]*Member
	memberList     []common.Address
	proposals      map[uint64]*Proposal
	votes          map[uint64][]*Vote
	totalFunds     *big.Int
	nextProposalID uint64

	feed event.Feed
}

var (
	_ MembershipRegistry = (*Engine)(nil)
	_ Governor           = (*Engine)(nil)
)

// NewEngine loads the persisted fund state from the ledger and returns an
// engine ready to serve calls. The admin argument seeds a fresh ledger; once
// stored, the persisted admin is authoritative and immutable.
func NewEngine(config *Config, admin common.Address, ledger Ledger, bank Transferor) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if bank == nil {
		bank = NopTransferor{}
	}

	state, err := ledger.Load()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:         config,
		ledger:         ledger,
		bank:           bank,
		now:            func() uint64 { return uint64(time.Now().Unix()) },
		members:        make(map[common.Address]*Member),
		proposals:      make(map[uint64]*Proposal),
		votes:          make(map[uint64][]*Vote),
		totalFunds:     new(big.Int),
		nextProposalID: state.NextProposalID,
	}

	if state.Admin != (common.Address{}) {
		e.admin = state.Admin
	} else {
		e.admin = admin
		if err := ledger.PutAdmin(admin); err != nil {
			return nil, err
		}
	}
	for _, m := range state.Members {
		e.members[m.Address] = m
	}
	e.memberList = append(e.memberList, state.MemberList...)
	for _, p := range state.Proposals {
		e.proposals[p.ID] = p
	}
	for _, v := range state.Votes {
		e.votes[v.ProposalID] = append(e.votes[v.ProposalID], v)
	}
	if state.TotalFunds != nil {
		e.totalFunds.Set(state.TotalFunds)
	}

	log.Info("Governance: engine loaded", "admin", e.admin,
		"members", len(e.memberList), "proposals", len(e.proposals),
		"totalFunds", e.totalFunds)
	return e, nil
}

// SubscribeEvents registers ch to receive an Event for every successful
// state-changing operation. Events are sent after the operation has been
// committed, outside the engine lock.
func (e *Engine) SubscribeEvents(ch chan<- Event) event.Subscription {
	return e.feed.Subscribe(ch)
}

// Admin returns the admin identity fixed at bootstrap.
func (e *Engine) Admin() common.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.admin
}

// IsMember reports whether addr is currently a member.
func (e *Engine) IsMember(addr common.Address) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.isMember(addr)
}

// MemberCount returns the number of current members.
func (e *Engine) MemberCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return uint64(len(e.memberList))
}

// MemberContribution returns the accumulated contribution of addr. Records
// of removed members are retained, so their contribution stays readable.
func (e *Engine) MemberContribution(addr common.Address) (*big.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, exists := e.members[addr]
	if !exists {
		return nil, ErrNotMember
	}
	return new(big.Int).Set(m.Contribution), nil
}

// TotalFunds returns the current pool balance.
func (e *Engine) TotalFunds() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return new(big.Int).Set(e.totalFunds)
}

// isMember expects the engine lock to be held.
func (e *Engine) isMember(addr common.Address) bool {
	m, exists := e.members[addr]
	return exists && m.IsMember
}

// emit publishes ev to subscribers and mirrors it to the log. Called after
// the engine lock has been released.
func (e *Engine) emit(ev Event) {
	log.Info("Governance: "+ev.Kind.String(), "member", ev.Member,
		"proposal", ev.ProposalID, "amount", ev.Amount)
	e.feed.Send(ev)
}
