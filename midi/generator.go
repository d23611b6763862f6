// Package midi turns the scheduled Haps a pattern produces into actual
// sound: a RenderSink buffers them into a Standard MIDI File, a LiveSink
// drives a FluidSynth subprocess in real time. Both implement
// scheduler.Sink.
package midi

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"strudel-go/pattern"
	"strudel-go/theory"
)

const ticksPerQuarter = 480

// GM drum map (General MIDI standard percussion), matched against the
// short sample names mini-notation sources write ("bd", "sd", ...).
const (
	kickDrum    = 36
	snareDrum   = 38
	closedHihat = 42
	openHihat   = 46
	rideCymbal  = 51
	crashCymbal = 49
	clapDrum    = 39
	rimshot     = 37
)

var drumNoteNames = map[string]uint8{
	"bd": kickDrum, "kick": kickDrum,
	"sd": snareDrum, "sn": snareDrum, "snare": snareDrum,
	"hh": closedHihat, "hihat": closedHihat,
	"oh": openHihat,
	"rd": rideCymbal, "ride": rideCymbal,
	"cr": crashCymbal, "crash": crashCymbal,
	"cp": clapDrum, "clap": clapDrum,
	"rim": rimshot,
}

// noteEvent is one buffered MIDI note-on/note-off pair, timed in ticks
// relative to the render's start.
type noteEvent struct {
	tick     uint32
	dur      uint32
	channel  uint8
	note     uint8
	velocity uint8
}

// RenderSink buffers every Emit call and writes the accumulated notes out
// as a Standard MIDI File once rendering stops. It implements
// scheduler.Sink.
type RenderSink struct {
	start  time.Time
	events []noteEvent
}

// NewRenderSink builds a render sink anchored at start (normally the
// scheduler clock's epoch, so tick 0 lines up with cycle 0).
func NewRenderSink(start time.Time) *RenderSink {
	return &RenderSink{start: start}
}

// Emit converts one scheduled Hap into zero or more buffered note events.
func (r *RenderSink) Emit(t time.Time, v pattern.Value, dur time.Duration, ctx pattern.Context) {
	m := v.AsMap()
	notes := notesForValue(m)
	if len(notes) == 0 {
		return
	}
	channel := uint8(0)
	if c, ok := m["channel"]; ok {
		if n, ok := c.Number(); ok {
			channel = uint8(n.Trunc())
		}
	}
	velocity := uint8(100)
	if g, ok := m["gain"]; ok {
		if n, ok := g.Number(); ok {
			velocity = clampVelocity(n.Float64() * 127)
		}
	}
	tick := r.tickOf(t)
	durTicks := r.ticksFor(dur)
	if durTicks == 0 {
		durTicks = 1
	}
	for _, n := range notes {
		r.events = append(r.events, noteEvent{tick, durTicks, channel, n, velocity})
	}
}

func (r *RenderSink) tickOf(t time.Time) uint32 {
	if t.Before(r.start) {
		return 0
	}
	seconds := t.Sub(r.start).Seconds()
	return uint32(seconds * 2 * ticksPerQuarter) // 2 quarter notes/sec = 120bpm reference grid
}

func (r *RenderSink) ticksFor(d time.Duration) uint32 {
	return uint32(d.Seconds() * 2 * ticksPerQuarter)
}

// notesForValue resolves a Hap's merged value map to absolute MIDI note
// numbers: "note"/"n" may be a bare number (treated as a MIDI offset from
// middle C), a note name ("cs4"), or a chord symbol ("Am7"); "s" falls
// back to the GM drum map for short sample names. A bare string value (a
// mini-notation word, promoted to {value: x}) is read as "s" when the map
// has no "s" key.
func notesForValue(m map[string]pattern.Value) []uint8 {
	if _, ok := m["s"]; !ok {
		if vv, ok := m["value"]; ok && vv.IsString() {
			withS := make(map[string]pattern.Value, len(m)+1)
			for k, val := range m {
				withS[k] = val
			}
			withS["s"] = vv
			m = withS
		}
	}
	if nv, ok := m["note"]; ok {
		return notesFromNoteField(nv)
	}
	if nv, ok := m["n"]; ok {
		if sv, ok := m["s"]; ok {
			if s, ok := sv.Str(); ok {
				if note, ok := drumNoteNames[s]; ok {
					return []uint8{note}
				}
			}
		}
		return notesFromNoteField(nv)
	}
	if sv, ok := m["s"]; ok {
		if s, ok := sv.Str(); ok {
			if note, ok := drumNoteNames[s]; ok {
				return []uint8{note}
			}
			if midiNotes := theory.ChordToMIDI(s, 4); len(midiNotes) > 0 {
				return toUint8Notes(midiNotes)
			}
		}
	}
	return nil
}

func notesFromNoteField(v pattern.Value) []uint8 {
	if n, ok := v.Number(); ok {
		return []uint8{clampNote(60 + n.Trunc())}
	}
	if s, ok := v.Str(); ok {
		if midiN, ok := theory.NoteNameToMIDI(s); ok {
			return []uint8{clampNote(int64(midiN))}
		}
		return toUint8Notes(theory.ChordToMIDI(s, 4))
	}
	return nil
}

func toUint8Notes(ns []int) []uint8 {
	out := make([]uint8, len(ns))
	for i, n := range ns {
		out[i] = clampNote(int64(n))
	}
	return out
}

func clampNote(n int64) uint8 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

func clampVelocity(v float64) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// WriteSMF writes the buffered events to path as a single-track Standard
// MIDI File at a fixed 120bpm reference tempo (wall-clock timing is
// already baked into each event's tick, so the tempo choice only affects
// the file's declared ticks-per-quarter scale).
func (r *RenderSink) WriteSMF(path string) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var meta smf.Track
	meta.Add(0, smf.MetaTempo(120))
	meta.Close(0)
	s.Add(meta)

	events := make([]noteEvent, len(r.events))
	copy(events, r.events)
	sort.Slice(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	type absMsg struct {
		tick uint32
		msg  midi.Message
	}
	var msgs []absMsg
	for _, e := range events {
		msgs = append(msgs, absMsg{e.tick, midi.NoteOn(e.channel, e.note, e.velocity)})
		msgs = append(msgs, absMsg{e.tick + e.dur, midi.NoteOff(e.channel, e.note)})
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].tick < msgs[j].tick })

	var tr smf.Track
	prev := uint32(0)
	for _, m := range msgs {
		tr.Add(m.tick-prev, m.msg)
		prev = m.tick
	}
	tr.Close(0)
	s.Add(tr)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("midi: %w", err)
	}
	defer f.Close()
	if _, err := s.WriteTo(f); err != nil {
		return fmt.Errorf("midi: %w", err)
	}
	return nil
}

// NoteCount reports how many note-on events have been buffered, for CLI
// progress reporting.
func (r *RenderSink) NoteCount() int { return len(r.events) }

// DrumSoundNames lists the recognized percussion sample names, sorted.
// Nothing in the CLI calls it.
func DrumSoundNames() []string {
	names := make([]string, 0, len(drumNoteNames))
	for n := range drumNoteNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
