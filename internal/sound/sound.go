// Package sound manages sound resources. Templates hold a rendered PCM buffer;
// per-use copies made with GetCopy share the buffer and carry their own
// volume, pan and loop settings.
//
// The manager owns a beep.Mixer instead of a device. Mix drains it headless
// once per frame, the way a speaker callback would.
package sound

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
)

// SampleRate is the rate every sound is rendered at.
const SampleRate = beep.SampleRate(44100)

// Format is the PCM format of every buffer.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// Sound is a playable clip.
type Sound struct {
	object.Base
	buffer    *beep.Buffer
	frequency float64
	duration  time.Duration
	volume    float32
	pan       float32
	looping   bool
}

// Handle refers to a managed Sound.
type Handle = resource.Handle[*Sound]

// Tone renders a sine tone of the given frequency and duration.
func Tone(name string, freq float64, d time.Duration) (*Sound, error) {
	if d <= 0 {
		return nil, errs.InvalidArgument("sound.Tone", "%s: duration %v", name, d)
	}
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, errs.New("sound.Tone", errs.CodeInvalidArgument).Subject(name).Cause(err).Build()
	}
	buf := beep.NewBuffer(Format)
	buf.Append(beep.Take(SampleRate.N(d), sine))

	s := &Sound{buffer: buf, frequency: freq, duration: d, volume: 1}
	s.Init(name)
	return s, nil
}

func (s *Sound) Frequency() float64      { return s.frequency }
func (s *Sound) Duration() time.Duration { return s.duration }
func (s *Sound) Samples() int            { return s.buffer.Len() }
func (s *Sound) Volume() float32         { return s.volume }
func (s *Sound) SetVolume(v float32)     { s.volume = core.ClampF(v, 0, 1) }
func (s *Sound) Pan() float32            { return s.pan }
func (s *Sound) SetPan(p float32)        { s.pan = core.ClampF(p, -1, 1) }
func (s *Sound) Looping() bool           { return s.looping }
func (s *Sound) SetLooping(l bool)       { s.looping = l }

// Clone shares the PCM buffer and copies the playback settings.
func (s *Sound) Clone() (*Sound, error) {
	c := &Sound{
		buffer:    s.buffer,
		frequency: s.frequency,
		duration:  s.duration,
		volume:    s.volume,
		pan:       s.pan,
		looping:   s.looping,
	}
	c.InitFrom(&s.Base)
	return c, nil
}

// Streamer builds a fresh stream over the buffer with the current settings.
func (s *Sound) Streamer() beep.Streamer {
	var st beep.Streamer = s.buffer.Streamer(0, s.buffer.Len())
	if s.looping {
		st = beep.Loop(-1, s.buffer.Streamer(0, s.buffer.Len()))
	}
	st = volume(st, s.volume)
	return &effects.Pan{Streamer: st, Pan: float64(s.pan)}
}

// volume maps a linear 0..1 gain onto effects.Volume; log2(0) is -Inf, so
// zero becomes Silent.
func volume(st beep.Streamer, v float32) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(float64(v))}
}

var props = property.NewSet("Sound",
	property.FloatProp("Volume", (*Sound).Volume, (*Sound).SetVolume),
	property.FloatProp("Pan", (*Sound).Pan, (*Sound).SetPan),
	property.BoolProp("Looping", (*Sound).Looping, (*Sound).SetLooping),
)

// Properties returns the sound property table.
func Properties() *property.Set[*Sound] { return props }

// Manager owns sounds and the mixer they play into.
type Manager struct {
	*resource.Manager[*Sound]
	mixer   *beep.Mixer
	scratch [][2]float64
	level   float64
}

// NewManager creates a sound manager with an empty mixer.
func NewManager(opts ...resource.Option[*Sound]) *Manager {
	opts = append([]resource.Option[*Sound]{resource.WithProperties(props)}, opts...)
	return &Manager{
		Manager: resource.NewManager("sound", opts...),
		mixer:   &beep.Mixer{},
		scratch: make([][2]float64, 512),
	}
}

// Mixer returns the mixer Play feeds.
func (m *Manager) Mixer() *beep.Mixer { return m.mixer }

// Playing returns the number of streams in the mixer.
func (m *Manager) Playing() int { return m.mixer.Len() }

// Generate renders a tone and registers it as a template.
func (m *Manager) Generate(name string, freq float64, d time.Duration, vol float32) (Handle, error) {
	s, err := Tone(name, freq, d)
	if err != nil {
		return Handle{}, fmt.Errorf("sound: generate %q: %w", name, err)
	}
	s.SetVolume(vol)
	return m.Add(name, s)
}

// Play queues the sound behind h on the mixer.
func (m *Manager) Play(h Handle) error {
	s, err := m.Object(h)
	if err != nil {
		return err
	}
	m.mixer.Add(s.Streamer())
	m.Logger().Debug("play", "name", s.Name(), "volume", s.volume, "pan", s.pan)
	return nil
}

// Mix pulls d worth of samples out of the mixer and returns how many were
// mixed. Streams that finish leave the mixer. An idle mixer mixes nothing.
func (m *Manager) Mix(d time.Duration) int {
	m.level = 0
	if m.mixer.Len() == 0 {
		return 0
	}
	want := SampleRate.N(d)
	mixed := 0
	for mixed < want {
		buf := m.scratch[:min(want-mixed, len(m.scratch))]
		n, _ := m.mixer.Stream(buf)
		if n == 0 {
			break
		}
		for _, smp := range buf[:n] {
			m.level = math.Max(m.level, math.Max(math.Abs(smp[0]), math.Abs(smp[1])))
		}
		mixed += n
	}
	return mixed
}

// Level returns the peak amplitude of the last Mix.
func (m *Manager) Level() float64 { return m.level }

// Stop drops every queued stream.
func (m *Manager) Stop() {
	m.mixer.Clear()
}

// Init renders every entry under /Sounds.
func (m *Manager) Init(st *settings.Settings) error {
	for _, name := range st.Keys("/Sounds") {
		base := settings.Join("Sounds", name)
		secs := st.GetFloat(base+"/Duration", 0.1)
		h, err := m.Generate(name,
			float64(st.GetFloat(base+"/Frequency", 440)),
			time.Duration(math.Round(float64(secs)*1000))*time.Millisecond,
			st.GetFloat(base+"/Volume", 1),
		)
		if err != nil {
			return err
		}
		s, _ := m.Object(h)
		s.SetPan(st.GetFloat(base+"/Pan", 0))
		s.SetLooping(st.GetBool(base+"/Looping", false))
	}
	m.Logger().Info("sounds rendered", "count", m.Count())
	return nil
}
