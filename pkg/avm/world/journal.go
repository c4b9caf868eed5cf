// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package world

import (
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// StorageWrite records a value written to a storage slot.
type StorageWrite struct {
	Address bn254.Element
	Slot    bn254.Element
	Value   bn254.Element
}

// Nullifier emitted by a contract.
type Nullifier struct {
	Address bn254.Element
	Value   bn254.Element
}

// NoteHash emitted by a contract.
type NoteHash struct {
	Address bn254.Element
	Value   bn254.Element
}

// UnencryptedLog emitted by a contract.
type UnencryptedLog struct {
	Address bn254.Element
	Fields  []bn254.Element
}

// L2ToL1Message sent by a contract.
type L2ToL1Message struct {
	Sender    bn254.Element
	Recipient bn254.Element
	Content   bn254.Element
}

// Journal records the side effects of a call on top of some underlying public
// state.  Reads see the effects recorded in the journal first, falling back to
// the underlying state.  A nested call executes against a fork of its parent's
// journal, which is merged back into the parent only when the nested call
// succeeds.  Thus, the side effects of a reverted call are simply dropped.
// Side effects are recorded in the order they occur, such that enumerating them
// is deterministic.
type Journal struct {
	parent PublicState
	// Latest value of each written slot
	storage map[key]bn254.Element
	// Every write, in order
	writes     []StorageWrite
	nullifiers map[key]struct{}
	emitted    []Nullifier
	noteHashes []NoteHash
	logs       []UnencryptedLog
	messages   []L2ToL1Message
}

// NewJournal constructs an empty journal on top of a given public state.
func NewJournal(state PublicState) *Journal {
	return &Journal{
		parent:     state,
		storage:    make(map[key]bn254.Element),
		nullifiers: make(map[key]struct{}),
	}
}

// Fork constructs an empty journal on top of this journal.
func (p *Journal) Fork() *Journal {
	return NewJournal(p)
}

// Merge the side effects of a (successful) fork into this journal.
func (p *Journal) Merge(child *Journal) {
	for _, w := range child.writes {
		p.StorageWrite(w.Address, w.Slot, w.Value)
	}
	//
	for _, n := range child.emitted {
		p.nullifiers[key{n.Address, n.Value}] = struct{}{}
		p.emitted = append(p.emitted, n)
	}
	//
	p.noteHashes = append(p.noteHashes, child.noteHashes...)
	p.logs = append(p.logs, child.logs...)
	p.messages = append(p.messages, child.messages...)
}

// StorageRead implementation for the PublicState interface.
func (p *Journal) StorageRead(address, slot bn254.Element) bn254.Element {
	if val, ok := p.storage[key{address, slot}]; ok {
		return val
	}
	//
	return p.parent.StorageRead(address, slot)
}

// StorageWrite records a write to a given storage slot.
func (p *Journal) StorageWrite(address, slot, value bn254.Element) {
	p.storage[key{address, slot}] = value
	p.writes = append(p.writes, StorageWrite{address, slot, value})
}

// NullifierExists implementation for the PublicState interface.
func (p *Journal) NullifierExists(address, nullifier bn254.Element) bool {
	if _, ok := p.nullifiers[key{address, nullifier}]; ok {
		return true
	}
	//
	return p.parent.NullifierExists(address, nullifier)
}

// EmitNullifier records a new nullifier, failing with a DuplicateNullifierError
// if it already exists.
func (p *Journal) EmitNullifier(address, nullifier bn254.Element) error {
	if p.NullifierExists(address, nullifier) {
		return &DuplicateNullifierError{address, nullifier}
	}
	//
	p.nullifiers[key{address, nullifier}] = struct{}{}
	p.emitted = append(p.emitted, Nullifier{address, nullifier})
	//
	return nil
}

// EmitNoteHash records a new note hash.
func (p *Journal) EmitNoteHash(address, noteHash bn254.Element) {
	p.noteHashes = append(p.noteHashes, NoteHash{address, noteHash})
}

// EmitUnencryptedLog records a new unencrypted log.
func (p *Journal) EmitUnencryptedLog(address bn254.Element, fields []bn254.Element) {
	p.logs = append(p.logs, UnencryptedLog{address, fields})
}

// SendL2ToL1Message records a new message.
func (p *Journal) SendL2ToL1Message(sender, recipient, content bn254.Element) {
	p.messages = append(p.messages, L2ToL1Message{sender, recipient, content})
}

// StorageWrites returns every storage write recorded, in order.
func (p *Journal) StorageWrites() []StorageWrite {
	return p.writes
}

// Nullifiers returns every nullifier emitted, in order.
func (p *Journal) Nullifiers() []Nullifier {
	return p.emitted
}

// NoteHashes returns every note hash emitted, in order.
func (p *Journal) NoteHashes() []NoteHash {
	return p.noteHashes
}

// UnencryptedLogs returns every unencrypted log emitted, in order.
func (p *Journal) UnencryptedLogs() []UnencryptedLog {
	return p.logs
}

// L2ToL1Messages returns every message sent, in order.
func (p *Journal) L2ToL1Messages() []L2ToL1Message {
	return p.messages
}
