package mines

import (
	"bytes"
	"encoding/gob"
	"errors"
)

// agentState is the wire form of an [Agent], since its live form
// keeps everything in unexported sets.
type agentState struct {
	Height, Width int
	MovesMade     []Cell
	Mines         []Cell
	Safes         []Cell
	Sentences     [][]Cell
	Counts        []int
}

// [Agent] implements [gob.GobEncoder]
func (a *Agent) GobEncode() ([]byte, error) {
	state := agentState{
		Height:    a.height,
		Width:     a.width,
		MovesMade: a.MovesMade(),
		Mines:     a.Mines(),
		Safes:     a.Safes(),
	}
	for _, s := range a.knowledge {
		state.Sentences = append(state.Sentences, s.Cells())
		state.Counts = append(state.Counts, s.count)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// [Agent] implements [gob.GobDecoder]
func (a *Agent) GobDecode(data []byte) (err error) {
	defer func() {
		var ae AssertionError
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.As(e, &ae) {
				err = ae
				return
			}
			panic(r)
		}
	}()

	var state agentState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	restored := NewAgent(state.Height, state.Width)
	for _, c := range state.MovesMade {
		restored.movesMade[c] = struct{}{}
	}
	for _, c := range state.Mines {
		restored.mines[c] = struct{}{}
	}
	for _, c := range state.Safes {
		restored.safes[c] = struct{}{}
	}
	for i, cells := range state.Sentences {
		restored.knowledge = append(
			restored.knowledge, NewSentence(cells, state.Counts[i]),
		)
	}
	*a = *restored
	return nil
}
