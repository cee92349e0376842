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
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// mockLedger is an in-memory Ledger for testing. It retains everything it
// is handed, so a second engine built on it sees the persisted state.
type mockLedger struct {
	admin      common.Address
	members    map[common.Address]*Member
	memberList []common.Address
	proposals  map[uint64]*Proposal
	votes      map[uint64][]*Vote
	totalFunds *big.Int
	nextID     uint64
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		members:    make(map[common.Address]*Member),
		proposals:  make(map[uint64]*Proposal),
		votes:      make(map[uint64][]*Vote),
		totalFunds: new(big.Int),
	}
}

func (l *mockLedger) PutMember(m *Member) error {
	record := *m
	record.Contribution = new(big.Int).Set(m.Contribution)
	l.members[m.Address] = &record
	return nil
}

func (l *mockLedger) PutMemberList(list []common.Address) error {
	l.memberList = append([]common.Address(nil), list...)
	return nil
}

func (l *mockLedger) PutProposal(p *Proposal) error {
	l.proposals[p.ID] = copyProposal(p)
	return nil
}

func (l *mockLedger) PutVote(v *Vote) error {
	voteCopy := *v
	l.votes[v.ProposalID] = append(l.votes[v.ProposalID], &voteCopy)
	return nil
}

func (l *mockLedger) PutAdmin(admin common.Address) error {
	l.admin = admin
	return nil
}

func (l *mockLedger) PutTreasury(totalFunds *big.Int, nextProposalID uint64) error {
	l.totalFunds = new(big.Int).Set(totalFunds)
	l.nextID = nextProposalID
	return nil
}

func (l *mockLedger) Load() (*LedgerState, error) {
	state := &LedgerState{
		Admin:          l.admin,
		MemberList:     append([]common.Address(nil), l.memberList...),
		TotalFunds:     new(big.Int).Set(l.totalFunds),
		NextProposalID: l.nextID,
	}
	for _, m := range l.members {
		record := *m
		record.Contribution = new(big.Int).Set(m.Contribution)
		state.Members = append(state.Members, &record)
	}
	for _, p := range l.proposals {
		state.Proposals = append(state.Proposals, copyProposal(p))
	}
	for _, votes := range l.votes {
		for _, v := range votes {
			voteCopy := *v
			state.Votes = append(state.Votes, &voteCopy)
		}
	}
	return state, nil
}

func (l *mockLedger) Close() error { return nil }

// recordingBank records outbound transfers and can be told to fail.
type recordingBank struct {
	transfers []bankTransfer
	err       error
}

type bankTransfer struct {
	to     common.Address
	amount *big.Int
}

func (b *recordingBank) Transfer(to common.Address, amount *big.Int) error {
	if b.err != nil {
		return b.err
	}
	b.transfers = append(b.transfers, bankTransfer{to: to, amount: new(big.Int).Set(amount)})
	return nil
}

// testClock drives the engine's time gate.
type testClock struct {
	unix uint64
}

func (c *testClock) advance(seconds uint64) { c.unix += seconds }

var testAdmin = common.HexToAddress("0xad")

// newTestEngine returns an engine at time 1000 with a 50% quorum and the
// default 3-day window, plus the mocks behind it.
func newTestEngine(t *testing.T) (*Engine, *mockLedger, *recordingBank, *testClock) {
	t.Helper()

	ledger := newMockLedger()
	bank := &recordingBank{}
	clock := &testClock{unix: 1000}

	engine, err := NewEngine(DefaultConfig(), testAdmin, ledger, bank)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	engine.now = func() uint64 { return clock.unix }
	return engine, ledger, bank, clock
}

// addMembers admits n members and returns their addresses.
func addMembers(t *testing.T, engine *Engine, n int) []common.Address {
	t.Helper()

	members := make([]common.Address, n)
	for i := range members {
		members[i] = common.BytesToAddress([]byte{0x10, byte(i + 1)})
		if err := engine.AddMember(testAdmin, members[i]); err != nil {
			t.Fatalf("failed to add member %d: %v", i, err)
		}
	}
	return members
}

func contribute(t *testing.T, engine *Engine, member common.Address, value int64) {
	t.Helper()
	if err := engine.Contribute(member, big.NewInt(value)); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
}

func TestEngine_EmptyLedger(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	if engine.Admin() != testAdmin {
		t.Errorf("expected admin %v, got %v", testAdmin, engine.Admin())
	}
	if engine.MemberCount() != 0 {
		t.Errorf("expected 0 members, got %d", engine.MemberCount())
	}
	if engine.TotalFunds().Sign() != 0 {
		t.Errorf("expected zero funds, got %v", engine.TotalFunds())
	}
}

func TestEngine_ReloadFromLedger(t *testing.T) {
	engine, ledger, _, clock := newTestEngine(t)

	members := addMembers(t, engine, 3)
	contribute(t, engine, members[0], 500)
	id, err := engine.CreateProposal(members[0], "repairs", big.NewInt(200), members[2])
	if err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	if err := engine.Vote(members[1], id, true); err != nil {
		t.Fatalf("failed to vote: %v", err)
	}

	// A second engine on the same ledger must see identical state. The
	// stored admin wins over the constructor argument.
	reloaded, err := NewEngine(DefaultConfig(), common.HexToAddress("0xbeef"), ledger, &recordingBank{})
	if err != nil {
		t.Fatalf("failed to reload engine: %v", err)
	}
	reloaded.now = func() uint64 { return clock.unix }

	if reloaded.Admin() != testAdmin {
		t.Errorf("expected persisted admin %v, got %v", testAdmin, reloaded.Admin())
	}
	if reloaded.MemberCount() != 3 {
		t.Errorf("expected 3 members, got %d", reloaded.MemberCount())
	}
	if reloaded.TotalFunds().Cmp(big.NewInt(500)) != 0 {
		t.Errorf("expected 500 funds, got %v", reloaded.TotalFunds())
	}

	p, err := reloaded.GetProposal(id)
	if err != nil {
		t.Fatalf("failed to get proposal after reload: %v", err)
	}
	if p.VotesFor != 1 || p.VotesAgainst != 0 {
		t.Errorf("expected 1/0 votes after reload, got %d/%d", p.VotesFor, p.VotesAgainst)
	}

	// The reloaded vote table still blocks a duplicate ballot.
	if err := reloaded.Vote(members[1], id, false); err != ErrAlreadyVoted {
		t.Errorf("expected error %v, got %v", ErrAlreadyVoted, err)
	}

	// Proposal ids continue from the persisted counter.
	id2, err := reloaded.CreateProposal(members[0], "supplies", big.NewInt(10), members[1])
	if err != nil {
		t.Fatalf("failed to create proposal after reload: %v", err)
	}
	if id2 != id+1 {
		t.Errorf("expected id %d, got %d", id+1, id2)
	}
}

func TestEngine_Events(t *testing.T) {
	engine, _, _, clock := newTestEngine(t)

	ch := make(chan Event, 16)
	sub := engine.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	members := addMembers(t, engine, 2)
	contribute(t, engine, members[0], 100)
	id, _ := engine.CreateProposal(members[0], "test", big.NewInt(40), members[1])
	engine.Vote(members[0], id, true)
	engine.Vote(members[1], id, true)
	clock.advance(engine.config.VotingPeriod)
	if err := engine.ExecuteProposal(members[0], id); err != nil {
		t.Fatalf("failed to execute: %v", err)
	}

	want := []EventKind{
		EventMemberAdded, EventMemberAdded, EventFundsContributed,
		EventProposalCreated, EventVoted, EventVoted, EventProposalExecuted,
	}
	for i, kind := range want {
		ev := <-ch
		if ev.Kind != kind {
			t.Fatalf("event %d: expected %v, got %v", i, kind, ev.Kind)
		}
		if kind == EventProposalExecuted {
			if !ev.Passed {
				t.Error("execution event should report passed")
			}
			if ev.Amount.Cmp(big.NewInt(40)) != 0 {
				t.Errorf("execution event amount: expected 40, got %v", ev.Amount)
			}
			if ev.Beneficiary != members[1] {
				t.Errorf("execution event beneficiary mismatch")
			}
		}
	}
}

func TestEngine_MemberContribution(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	members := addMembers(t, engine, 1)

	if _, err := engine.MemberContribution(common.HexToAddress("0x999")); err != ErrNotMember {
		t.Errorf("expected error %v, got %v", ErrNotMember, err)
	}

	contribute(t, engine, members[0], 70)
	got, err := engine.MemberContribution(members[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(70)) != 0 {
		t.Errorf("expected contribution 70, got %v", got)
	}

	// The returned value is a copy; mutating it must not touch the engine.
	got.SetInt64(0)
	again, _ := engine.MemberContribution(members[0])
	if again.Cmp(big.NewInt(70)) != 0 {
		t.Error("contribution accessor leaked internal state")
	}
}

func TestEngine_TransferFailureIsWrapped(t *testing.T) {
	engine, _, bank, _ := newTestEngine(t)
	members := addMembers(t, engine, 1)
	contribute(t, engine, members[0], 100)

	bank.err = errors.New("wire unavailable")
	err := engine.Withdraw(members[0], big.NewInt(50))
	if !errors.Is(err, ErrTransferFailed) {
		t.Errorf("expected ErrTransferFailed, got %v", err)
	}
}
