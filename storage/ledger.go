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

// Package storage persists fund governance state in a LevelDB database.
// Records are RLP encoded under type prefixes; singleton state (admin,
// member list order, treasury) lives under dedicated keys.
package storage

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/daofund/go-daofund/governance"
)

var (
	// Record key prefixes
	memberPrefix   = []byte("mbr:")
	proposalPrefix = []byte("prp:")
	votePrefix     = []byte("vot:")

	// Singleton keys
	adminKey      = []byte("s:admin")
	memberListKey = []byte("s:members")
	treasuryKey   = []byte("s:treasury")
)

// Ledger implements governance.Ledger on a LevelDB database.
type Ledger struct {
	db *leveldb.DB
}

var _ governance.Ledger = (*Ledger)(nil)

// Open opens (creating if necessary) the ledger database described by config.
func Open(config *Config) (*Ledger, error) {
	db, err := leveldb.OpenFile(config.Path, &opt.Options{
		BlockCacheCapacity:     config.Cache * opt.MiB / 2,
		WriteBuffer:            config.Cache * opt.MiB / 4,
		OpenFilesCacheCapacity: config.Handles,
		ReadOnly:               config.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Storage records for RLP encoding. Amounts are carried as big.Int bytes so
// a zero value and an absent value round-trip identically.

type memberRecord struct {
	Address      common.Address
	IsMember     bool
	Contribution []byte
	JoinedAt     uint64
}

type proposalRecord struct {
	ID           uint64
	Description  string
	Amount       []byte
	Beneficiary  common.Address
	CreatedAt    uint64
	VotesFor     uint64
	VotesAgainst uint64
	Executed     bool
}

type voteRecord struct {
	ProposalID uint64
	Voter      common.Address
	InFavor    bool
	Timestamp  uint64
}

type treasuryRecord struct {
	TotalFunds     []byte
	NextProposalID uint64
}

// PutMember stores or overwrites a member record.
func (l *Ledger) PutMember(m *governance.Member) error {
	encoded, err := rlp.EncodeToBytes(&memberRecord{
		Address:      m.Address,
		IsMember:     m.IsMember,
		Contribution: m.Contribution.Bytes(),
		JoinedAt:     m.JoinedAt,
	})
	if err != nil {
		return err
	}
	return l.db.Put(memberKey(m.Address), encoded, nil)
}

// PutMemberList stores the current membership iteration order.
func (l *Ledger) PutMemberList(list []common.Address) error {
	encoded, err := rlp.EncodeToBytes(list)
	if err != nil {
		return err
	}
	return l.db.Put(memberListKey, encoded, nil)
}

// PutProposal stores or overwrites a proposal record.
func (l *Ledger) PutProposal(p *governance.Proposal) error {
	encoded, err := rlp.EncodeToBytes(&proposalRecord{
		ID:           p.ID,
		Description:  p.Description,
		Amount:       p.Amount.Bytes(),
		Beneficiary:  p.Beneficiary,
		CreatedAt:    p.CreatedAt,
		VotesFor:     p.VotesFor,
		VotesAgainst: p.VotesAgainst,
		Executed:     p.Executed,
	})
	if err != nil {
		return err
	}
	return l.db.Put(proposalKey(p.ID), encoded, nil)
}

// PutVote stores a cast ballot.
func (l *Ledger) PutVote(v *governance.Vote) error {
	encoded, err := rlp.EncodeToBytes(&voteRecord{
		ProposalID: v.ProposalID,
		Voter:      v.Voter,
		InFavor:    v.InFavor,
		Timestamp:  v.Timestamp,
	})
	if err != nil {
		return err
	}
	return l.db.Put(voteKey(v.ProposalID, v.Voter), encoded, nil)
}

// PutAdmin stores the admin identity.
func (l *Ledger) PutAdmin(admin common.Address) error {
	return l.db.Put(adminKey, admin.Bytes(), nil)
}

// PutTreasury stores the pool balance and the proposal counter.
func (l *Ledger) PutTreasury(totalFunds *big.Int, nextProposalID uint64) error {
	encoded, err := rlp.EncodeToBytes(&treasuryRecord{
		TotalFunds:     totalFunds.Bytes(),
		NextProposalID: nextProposalID,
	})
	if err != nil {
		return err
	}
	return l.db.Put(treasuryKey, encoded, nil)
}

// Load reads the complete persisted state. A fresh database loads as an
// empty fund: no admin, no members, zero balance, counter at zero.
func (l *Ledger) Load() (*governance.LedgerState, error) {
	state := &governance.LedgerState{TotalFunds: new(big.Int)}

	if raw, err := l.db.Get(adminKey, nil); err == nil {
		state.Admin = common.BytesToAddress(raw)
	} else if err != leveldb.ErrNotFound {
		return nil, err
	}

	if raw, err := l.db.Get(memberListKey, nil); err == nil {
		if err := rlp.DecodeBytes(raw, &state.MemberList); err != nil {
			return nil, err
		}
	} else if err != leveldb.ErrNotFound {
		return nil, err
	}

	if raw, err := l.db.Get(treasuryKey, nil); err == nil {
		var record treasuryRecord
		if err := rlp.DecodeBytes(raw, &record); err != nil {
			return nil, err
		}
		state.TotalFunds = new(big.Int).SetBytes(record.TotalFunds)
		state.NextProposalID = record.NextProposalID
	} else if err != leveldb.ErrNotFound {
		return nil, err
	}

	iter := l.db.NewIterator(util.BytesPrefix(memberPrefix), nil)
	for iter.Next() {
		var record memberRecord
		if err := rlp.DecodeBytes(iter.Value(), &record); err != nil {
			iter.Release()
			return nil, err
		}
		state.Members = append(state.Members, &governance.Member{
			Address:      record.Address,
			IsMember:     record.IsMember,
			Contribution: new(big.Int).SetBytes(record.Contribution),
			JoinedAt:     record.JoinedAt,
		})
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, err
	}

	iter = l.db.NewIterator(util.BytesPrefix(proposalPrefix), nil)
	for iter.Next() {
		var record proposalRecord
		if err := rlp.DecodeBytes(iter.Value(), &record); err != nil {
			iter.Release()
			return nil, err
		}
		state.Proposals = append(state.Proposals, &governance.Proposal{
			ID:           record.ID,
			Description:  record.Description,
			Amount:       new(big.Int).SetBytes(record.Amount),
			Beneficiary:  record.Beneficiary,
			CreatedAt:    record.CreatedAt,
			VotesFor:     record.VotesFor,
			VotesAgainst: record.VotesAgainst,
			Executed:     record.Executed,
		})
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, err
	}

	iter = l.db.NewIterator(util.BytesPrefix(votePrefix), nil)
	for iter.Next() {
		var record voteRecord
		if err := rlp.DecodeBytes(iter.Value(), &record); err != nil {
			iter.Release()
			return nil, err
		}
		state.Votes = append(state.Votes, &governance.Vote{
			ProposalID: record.ProposalID,
			Voter:      record.Voter,
			InFavor:    record.InFavor,
			Timestamp:  record.Timestamp,
		})
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, err
	}

	return state, nil
}

func memberKey(addr common.Address) []byte {
	return append(append([]byte{}, memberPrefix...), addr.Bytes()...)
}

func proposalKey(id uint64) []byte {
	key := append([]byte{}, proposalPrefix...)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return append(key, buf...)
}

func voteKey(id uint64, voter common.Address) []byte {
	key := append([]byte{}, votePrefix...)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	key = append(key, buf...)
	return append(key, voter.Bytes()...)
}
