// Package velocity collects note velocities from midi files and draws
// replacement velocities from the collected values.
package velocity

import (
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"sort"
)

// Message types carrying a velocity (or pressure) as second data byte.
const (
	NoteOff    uint8 = 0x8
	NoteOn     uint8 = 0x9
	Aftertouch uint8 = 0xA
)

// Database maps note -> message type -> observed velocities.
type Database map[uint8]map[uint8][]int

// MessageType returns the message type of a channel message status byte
// when it carries a velocity.
func MessageType(status byte) (uint8, bool) {
	switch t := status >> 4; t {
	case NoteOff, NoteOn, Aftertouch:
		return t, true
	}
	return 0, false
}

// Set is the velocities seen per note and message type.
type Set map[uint8]map[uint8]map[uint8]bool

func (s Set) Add(note, msgType, velocity uint8) {
	types, ok := s[note]
	if !ok {
		types = make(map[uint8]map[uint8]bool)
		s[note] = types
	}
	velocities, ok := types[msgType]
	if !ok {
		velocities = make(map[uint8]bool)
		types[msgType] = velocities
	}
	velocities[velocity] = true
}

// Database returns the set with velocities sorted ascending.
func (s Set) Database() Database {
	db := make(Database, len(s))
	for note, types := range s {
		db[note] = make(map[uint8][]int, len(types))
		for msgType, velocities := range types {
			list := make([]int, 0, len(velocities))
			for v := range velocities {
				list = append(list, int(v))
			}
			sort.Ints(list)
			db[note][msgType] = list
		}
	}
	return db
}

// Pick draws a velocity recorded for note and msgType strictly between
// min and max.
func (db Database) Pick(rng *rand.Rand, note, msgType uint8, min, max int) (uint8, bool) {
	var candidates []int
	for _, v := range db[note][msgType] {
		if v > min && v < max {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return uint8(candidates[rng.Intn(len(candidates))]), true
}

func (db Database) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(db)
}

func Decode(r io.Reader) (Database, error) {
	var db Database
	err := json.NewDecoder(r).Decode(&db)
	return db, err
}

func Import(name string) (Database, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
