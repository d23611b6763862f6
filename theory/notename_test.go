package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteNameToMIDIMiddleC(t *testing.T) {
	v, ok := NoteNameToMIDI("c4")
	assert.True(t, ok)
	assert.Equal(t, 60, v)
}

func TestNoteNameToMIDIDefaultOctave(t *testing.T) {
	v, ok := NoteNameToMIDI("c")
	assert.True(t, ok)
	assert.Equal(t, 60, v)
}

func TestNoteNameToMIDISharpFlat(t *testing.T) {
	v, ok := NoteNameToMIDI("cs4")
	assert.True(t, ok)
	assert.Equal(t, 61, v)

	v2, ok := NoteNameToMIDI("df4")
	assert.True(t, ok)
	assert.Equal(t, 61, v2)
}

func TestChordToMIDIMajorTriad(t *testing.T) {
	notes := ChordToMIDI("C", 3)
	assert.Equal(t, []int{48, 52, 55}, notes)
}

func TestChordToMIDIMinorSeventh(t *testing.T) {
	notes := ChordToMIDI("Am7", 3)
	assert.Equal(t, []int{57, 60, 64, 67}, notes)
}
