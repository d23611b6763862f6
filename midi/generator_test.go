package midi

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strudel-go/pattern"
)

func TestRenderSinkBuffersNoteNameEvents(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewRenderSink(start)

	v := pattern.MapValue(map[string]pattern.Value{
		"note": pattern.StringValue("c4"),
		"gain": pattern.NumberValue(pattern.FromFloat(0.8)),
	})
	r.Emit(start.Add(500*time.Millisecond), v, 250*time.Millisecond, pattern.Context{})

	require.Equal(t, 1, r.NoteCount())
	assert.Equal(t, uint8(60), r.events[0].note)
}

func TestRenderSinkDrumSampleName(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewRenderSink(start)

	v := pattern.MapValue(map[string]pattern.Value{"s": pattern.StringValue("bd")})
	r.Emit(start, v, 100*time.Millisecond, pattern.Context{})

	require.Equal(t, 1, r.NoteCount())
	assert.Equal(t, uint8(kickDrum), r.events[0].note)
}

func TestRenderSinkWritesSMF(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewRenderSink(start)
	v := pattern.MapValue(map[string]pattern.Value{"s": pattern.StringValue("sd")})
	r.Emit(start, v, 100*time.Millisecond, pattern.Context{})

	path := filepath.Join(t.TempDir(), "out.mid")
	require.NoError(t, r.WriteSMF(path))
}

func TestNotesForValueIgnoresSilence(t *testing.T) {
	assert.Nil(t, notesForValue(map[string]pattern.Value{}))
}
